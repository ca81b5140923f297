package dto

// MsgUserCreated is returned after a successful registration.
const MsgUserCreated = "User created successfully!"

// RegisterUserResponse is the body of a successful registration. It carries no user
// data and no tokens.
type RegisterUserResponse struct {
	Detail string `json:"detail"`
}
