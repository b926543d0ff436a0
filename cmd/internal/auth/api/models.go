package authapi

// Wire shapes. Field names mirror the original chirp clients; do not rename
// without a compatibility plan.

type signupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	ProfilePic *string `json:"profilePic"`
	Bio        *string `json:"bio"`
	FullName   *string `json:"fullName"`
}

// userData is the sanitized outward identity view. The password hash is
// never part of this shape.
type userData struct {
	ID         string  `json:"_id"`
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Bio        string  `json:"bio"`
	ProfilePic *string `json:"profilePic"`
}

type signupResponse struct {
	Success  bool     `json:"success"`
	UserData userData `json:"userData"`
	Token    string   `json:"token"`
	Message  string   `json:"message"`
}

type loginResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Token    string   `json:"token"`
	UserData userData `json:"userData"`
}

type checkAuthResponse struct {
	Success bool     `json:"success"`
	User    userData `json:"user"`
}

type updateProfileResponse struct {
	Success bool     `json:"success"`
	User    userData `json:"user"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
