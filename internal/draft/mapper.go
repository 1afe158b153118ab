package draft

import "github.com/octobees/outreach-drafter/internal/entity"

// MapDrafts assigns drafts[0] to the primary fields and drafts[1] to the
// follow-up fields. The boolean is false when there was nothing to map.
func MapDrafts(drafts []entity.DraftPair) (entity.DraftFields, bool) {
	var fields entity.DraftFields
	if len(drafts) == 0 {
		return fields, false
	}

	fields.PrimarySubject = drafts[0].Subject
	fields.PrimaryBody = drafts[0].Body
	if len(drafts) >= 2 {
		fields.FollowupSubject = drafts[1].Subject
		fields.FollowupBody = drafts[1].Body
	}
	return fields, true
}
