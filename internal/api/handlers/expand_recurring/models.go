package expand_recurring

import (
	expandRecurring "github.com/m04kA/SMC-AgendaService/internal/usecase/expand_recurring"
)

// ExpandRecurringRequest HTTP request model
type ExpandRecurringRequest struct {
	Weeks int `json:"weeks"`
}

// ExpandRecurringResponse HTTP response model
// created и failed содержат даты повторов в формате YYYY-MM-DD
type ExpandRecurringResponse struct {
	BaseID     int64    `json:"baseId"`
	Created    []string `json:"created"`
	Failed     []string `json:"failed"`
	CreatedIDs []int64  `json:"createdIds"`
}

func (r *ExpandRecurringRequest) ToUseCaseRequest(tenantID, appointmentID int64) *expandRecurring.Request {
	return &expandRecurring.Request{
		TenantID:      tenantID,
		AppointmentID: appointmentID,
		Weeks:         r.Weeks,
	}
}

func FromUseCaseResponse(resp *expandRecurring.Response) *ExpandRecurringResponse {
	out := &ExpandRecurringResponse{
		BaseID:     resp.BaseID,
		Created:    resp.Created,
		Failed:     resp.Failed,
		CreatedIDs: resp.CreatedIDs,
	}
	if out.Created == nil {
		out.Created = []string{}
	}
	if out.Failed == nil {
		out.Failed = []string{}
	}
	if out.CreatedIDs == nil {
		out.CreatedIDs = []int64{}
	}
	return out
}
