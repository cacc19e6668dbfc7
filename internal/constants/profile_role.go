package constants

type ProfileRole string

const (
	RoleCustomer ProfileRole = "customer"
	RoleTasker   ProfileRole = "tasker"
	RoleAdmin    ProfileRole = "admin"
)
