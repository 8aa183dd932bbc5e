package domain

// Back-office roles carried in JWT claims. Viewers can read and preview;
// costs and cartons are only writable by ops and admin.
const (
	RoleAdmin  = "admin"
	RoleOps    = "ops"
	RoleViewer = "viewer"
)
