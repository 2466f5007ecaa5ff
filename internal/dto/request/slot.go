package request

type SlotRequest struct {
	DateTime string  `json:"dateTime" validate:"required,datetime_minute"`
	Category string  `json:"category" validate:"max=64"`
	Total    int     `json:"total" validate:"min=1"`
	Price    float64 `json:"price" validate:"min=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
}

type CreateSlotsRequest struct {
	Slots []SlotRequest `json:"slots" validate:"required,min=1,max=500,dive"`
}
