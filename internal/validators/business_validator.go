package validators

type CreateBusinessRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"required,oneof=restaurant cafe retail beauty fitness services other"`
	Address     string `json:"address" validate:"required,min=5,max=255"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	Email       string `json:"email" validate:"omitempty,email"`
	Website     string `json:"website" validate:"omitempty,url,max=255"`
}

type UpdateBusinessRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Category    *string `json:"category" validate:"omitempty,oneof=restaurant cafe retail beauty fitness services other"`
	Address     *string `json:"address" validate:"omitempty,min=5,max=255"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Website     *string `json:"website" validate:"omitempty,url,max=255"`
}

func (req *UpdateBusinessRequest) ToUpdates() map[string]interface{} {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	return updates
}
