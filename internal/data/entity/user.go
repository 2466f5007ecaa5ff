package entity

type UserRole string

const (
	RoleUser    UserRole = "User"
	RoleGuide   UserRole = "Guide"
	RoleManager UserRole = "Manager"
	RoleAdmin   UserRole = "Admin"
)
