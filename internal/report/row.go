package report

// Columns holds the header row of every report
var Columns = []string{"User ID", "Name", "Email", "Tenant ID", "Last Session Created At"}

// Row represents a single report line: a user and the creation time of its latest session
type Row struct {
	UserID               string `json:"user_id"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	TenantID             string `json:"tenant_id"`
	LastSessionCreatedAt string `json:"last_session_created_at"`
}

// Values returns the row's cells in column order
func (row Row) Values() []string {
	return []string{row.UserID, row.Name, row.Email, row.TenantID, row.LastSessionCreatedAt}
}
