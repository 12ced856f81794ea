package candidates

import (
	"fmt"
	"strings"
	"time"

	"verifyzen/internal/timeline"
)

const dateLayout = "2006-01-02"

// CandidateRequest is the payload for creating or updating a candidate.
type CandidateRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	LinkedInURL string `json:"linkedinUrl"`
}

// CandidateResponse is the outward-facing representation of a candidate.
type CandidateResponse struct {
	CandidateID string    `json:"candidateId"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	LinkedInURL string    `json:"linkedinUrl,omitempty"`
	Status      string    `json:"status"`
	HasResume   bool      `json:"hasResume"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toResponse(cand Candidate) CandidateResponse {
	return CandidateResponse{
		CandidateID: cand.ID,
		FirstName:   cand.FirstName,
		LastName:    cand.LastName,
		Email:       cand.Email,
		Phone:       cand.Phone,
		LinkedInURL: cand.LinkedInURL,
		Status:      cand.Status,
		HasResume:   cand.ResumeKey != "",
		CreatedAt:   cand.CreatedAt,
		UpdatedAt:   cand.UpdatedAt,
	}
}

// TimelineEntryRequest is one history entry in a timeline replacement payload.
type TimelineEntryRequest struct {
	EntryType    string  `json:"entryType" binding:"required"`
	Title        string  `json:"title" binding:"required"`
	Organization string  `json:"organization" binding:"required"`
	StartDate    string  `json:"startDate" binding:"required"`
	EndDate      *string `json:"endDate"`
}

// TimelineEntryResponse mirrors a stored timeline entry.
type TimelineEntryResponse struct {
	EntryID      string  `json:"entryId"`
	EntryType    string  `json:"entryType"`
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	StartDate    string  `json:"startDate"`
	EndDate      *string `json:"endDate,omitempty"`
}

func toTimelineResponse(entries []timeline.Entry) []TimelineEntryResponse {
	resp := make([]TimelineEntryResponse, 0, len(entries))
	for _, e := range entries {
		item := TimelineEntryResponse{
			EntryID:      e.ID,
			EntryType:    string(e.Type),
			Title:        e.Title,
			Organization: e.Organization,
			StartDate:    e.StartDate.Format(dateLayout),
		}
		if e.EndDate != nil {
			end := e.EndDate.Format(dateLayout)
			item.EndDate = &end
		}
		resp = append(resp, item)
	}
	return resp
}

// parseTimelineEntry validates one request entry. Dates are calendar dates
// and an open-ended entry omits endDate. Inverted ranges are rejected here
// so the analyzer only ever sees chronologically sane input.
func parseTimelineEntry(req TimelineEntryRequest) (timeline.Entry, error) {
	entryType := timeline.EntryType(strings.TrimSpace(req.EntryType))
	if entryType != timeline.EntryTypeWork && entryType != timeline.EntryTypeEducation {
		return timeline.Entry{}, fmt.Errorf("%w: entryType must be work or education", ErrInvalidInput)
	}
	title := strings.TrimSpace(req.Title)
	organization := strings.TrimSpace(req.Organization)
	if title == "" || organization == "" {
		return timeline.Entry{}, fmt.Errorf("%w: title and organization are required", ErrInvalidInput)
	}

	start, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return timeline.Entry{}, fmt.Errorf("%w: startDate must be YYYY-MM-DD", ErrInvalidInput)
	}

	entry := timeline.Entry{
		Type:         entryType,
		Title:        title,
		Organization: organization,
		StartDate:    start,
	}
	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		end, err := time.Parse(dateLayout, strings.TrimSpace(*req.EndDate))
		if err != nil {
			return timeline.Entry{}, fmt.Errorf("%w: endDate must be YYYY-MM-DD", ErrInvalidInput)
		}
		if end.Before(start) {
			return timeline.Entry{}, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
		}
		entry.EndDate = &end
	}
	return entry, nil
}
