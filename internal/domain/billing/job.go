package billing

import "github.com/google/uuid"

// Job is the read-only projection of the job entity owned by the jobs
// service. Invoices reference it by numeric ID, purchase orders by UUID;
// repositories join against it to enrich read responses.
type Job struct {
	ID    int64
	UUID  uuid.UUID
	Title string
}
