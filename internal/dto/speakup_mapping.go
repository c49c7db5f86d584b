package dto

import (
	"time"

	"github.com/openhrstack/speakup_app/internal/core/domain"
)

// ToSpeakUpItem converts a domain entry (already redacted when anonymous)
// plus its sealed payload token into a search-response row.
func ToSpeakUpItem(s domain.SpeakUp, payloadToken string) SpeakUpItem {
	item := SpeakUpItem{
		ID:               s.SpeakUpID,
		Message:          s.Message,
		Attachment:       s.Attachment,
		IsAnonymous:      s.IsAnonymous,
		Status:           s.Status,
		Type:             s.TypeName,
		TypeID:           s.TypeID,
		EmployeeNumber:   s.EmployeeNumber,
		EmployeeName:     s.EmployeeName,
		Designation:      s.Designation,
		AssignedEmployee: s.AssignedEmployee,
		Approver:         s.Approver,
		ActionFlags:      s.Flags,
		EncryptedPayload: payloadToken,
	}
	if !s.CreatedAt.IsZero() {
		item.CreatedAt = s.CreatedAt.Format(time.RFC3339)
	}
	return item
}

// ToSearchResponse assembles the search envelope. totalCount comes from the
// repository count query, never from len(rows).
func ToSearchResponse(rows []SpeakUpItem, totalCount int) SearchResponse {
	if rows == nil {
		rows = []SpeakUpItem{}
	}
	return SearchResponse{
		Data:  rows,
		Count: []CountItem{{TotalCount: totalCount}},
	}
}

// ToSpeakUpDetail converts a domain entry into the form-hydration shape.
func ToSpeakUpDetail(s domain.SpeakUp) SpeakUpDetail {
	return SpeakUpDetail{
		ID:          s.SpeakUpID,
		Message:     s.Message,
		Attachment:  s.Attachment,
		IsAnonymous: s.IsAnonymous,
		TypeID:      s.TypeID,
		Status:      s.Status,
	}
}

// ToHistoryItems converts audit-trail rows for the wire.
func ToHistoryItems(entries []domain.HistoryEntry) []HistoryItem {
	items := make([]HistoryItem, len(entries))
	for i, e := range entries {
		items[i] = HistoryItem{
			StatusFrom: e.StatusFrom,
			StatusTo:   e.StatusTo,
			ActionBy:   e.ActionBy,
			ActorName:  e.ActorName,
			Remarks:    e.Remarks,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		}
	}
	return items
}

// ToFilterOptions converts lookup rows for the wire.
func ToFilterOptions(options []domain.LookupOption) []FilterOption {
	out := make([]FilterOption, len(options))
	for i, o := range options {
		out[i] = FilterOption{Key: o.Key, Value: o.Value, SortOrder: o.SortOrder}
	}
	return out
}
