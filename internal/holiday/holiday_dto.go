package holiday

type CreateHolidayRequest struct {
	Name      string `json:"name" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Recurring bool   `json:"recurring"`
}

type HolidayResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Recurring bool   `json:"recurring"`
}
