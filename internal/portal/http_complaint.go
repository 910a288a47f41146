// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package portal

import (
	"net/http"

	"github.com/sjdportal/darbar/internal/backend"
	requestutil "github.com/sjdportal/darbar/internal/platform/request"
	"github.com/sjdportal/darbar/internal/platform/respond"
	"github.com/sjdportal/darbar/internal/platform/validate"
	"github.com/sjdportal/darbar/pkg/pagination"
	"github.com/sjdportal/darbar/pkg/uuid"
)

// # Request Payloads

type complaintRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Category    string `json:"category"`
	District    string `json:"district"`
	Phone       string `json:"phone"`
}

type statusUpdateRequest struct {
	Status string `json:"status"`
	Remark string `json:"remark"`
}

/*
ListComplaints serves one page of the complaint listing.

GET <subtree>/complaints?page=&limit=&status=&district=

Description: Forwards pagination and filters upstream unchanged. The
backend scopes the listing to the authenticated user's role, so a citizen
sees their own complaints while an officer sees their assignment queue.

Response:
  - 200: Paginated []backend.Complaint
  - 502: ErrUpstream: Backend unreachable
*/
func (handler *Handler) listComplaints(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := backend.ComplaintFilter{
		Status:   request.URL.Query().Get(FieldStatus),
		District: request.URL.Query().Get(FieldDistrict),
	}

	page, err := handler.client.Complaints(request.Context(), params, filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Complaints, pagination.NewMeta(params, page.Total))
}

/*
SubmitComplaint files a new grievance.

POST <subtree>/complaints

Description: Validates the submission, stamps it with a gateway-generated
client reference so a retried request is recognizable upstream, and
forwards it to the backend.

Request:
  - Body: complaintRequest (Subject, Description, Category, District, Phone)

Response:
  - 201: backend.Complaint: The created record with its tracking reference
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) submitComplaint(writer http.ResponseWriter, request *http.Request) {
	var input complaintRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldSubject, input.Subject).
		MaxLen(FieldSubject, input.Subject, 200).
		Required(FieldDescription, input.Description).
		MaxLen(FieldDescription, input.Description, 5000).
		Required(FieldCategory, input.Category).
		Required(FieldDistrict, input.District).
		Phone(FieldPhone, input.Phone)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	complaint, err := handler.client.SubmitComplaint(request.Context(), backend.ComplaintInput{
		Subject:         input.Subject,
		Description:     input.Description,
		Category:        input.Category,
		District:        input.District,
		Phone:           input.Phone,
		ClientReference: uuid.New(),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, complaint)
}

/*
ComplaintDetail serves a single complaint.

GET <subtree>/complaints/{id}

Response:
  - 200: backend.Complaint
  - 404: ErrNotFound: Unknown complaint or outside the caller's scope
*/
func (handler *Handler) complaintDetail(writer http.ResponseWriter, request *http.Request) {
	complaint, err := handler.client.ComplaintByID(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, complaint)
}

/*
UpdateComplaintStatus moves a complaint through its workflow.

PUT <subtree>/complaints/{id}/status

Description: Only mounted in subtrees whose capabilities allow workflow
updates (officer, dm, department, admin, superadmin).

Request:
  - Body: statusUpdateRequest (Status, Remark)

Response:
  - 200: backend.Complaint: The updated record
  - 400: ErrInvalidJSON: Unknown workflow status
  - 403: ErrForbidden: Backend policy denied the transition
*/
func (handler *Handler) updateComplaintStatus(writer http.ResponseWriter, request *http.Request) {
	var input statusUpdateRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldStatus, input.Status).
		OneOf(FieldStatus, input.Status, StatusPending, StatusInProgress, StatusResolved, StatusRejected)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	complaint, err := handler.client.UpdateComplaintStatus(
		request.Context(),
		requestutil.Param(request, "id"),
		backend.StatusUpdateInput{Status: input.Status, Remark: input.Remark},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, complaint)
}

/*
Stats serves the aggregate dashboard counters.

GET <subtree>/stats

Response:
  - 200: backend.StatsSummary
  - 502: ErrUpstream: Backend unreachable
*/
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	summary, err := handler.client.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}
