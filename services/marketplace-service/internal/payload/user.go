package payload

type UpdateUserRequest struct {
	FullName        *string `json:"fullName"        validate:"omitempty,min=5,max=50"`
	ProfileImageURL *string `json:"profileImageUrl" validate:"omitempty,url"`
	Password        *string `json:"password"        validate:"omitempty,min=6,max=128"`
}

type UserResponse struct {
	Response
	User *UserSummary `json:"user"`
}

type ProfilePictureResponse struct {
	Response
	ProfileImageURL string       `json:"profileImageUrl"`
	User            *UserSummary `json:"user"`
}
