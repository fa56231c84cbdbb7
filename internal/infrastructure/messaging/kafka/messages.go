// Package kafka publishes and consumes preparation job requests.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/pkg/errors"
)

// PrepareMessage is the wire format of a preparation request on the
// structure.prepare topic.
type PrepareMessage struct {
	JobID       uuid.UUID `json:"job_id"`
	PDBID       string    `json:"pdb_id"`
	PH          float64   `json:"ph"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewPrepareMessage builds the wire message for a pending job.
func NewPrepareMessage(job *structure.PreparationJob) PrepareMessage {
	return PrepareMessage{
		JobID:       job.ID,
		PDBID:       job.PDBID.String(),
		PH:          job.PH,
		RequestedAt: job.CreatedAt,
	}
}

// Encode renders the message as JSON.
func (m PrepareMessage) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to encode prepare message")
	}
	return data, nil
}

// DecodePrepareMessage parses a message body and validates the embedded
// structure identifier.
func DecodePrepareMessage(data []byte) (PrepareMessage, error) {
	var m PrepareMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return PrepareMessage{}, errors.Wrap(err, errors.CodeInvalidParam,
			"failed to decode prepare message")
	}
	if m.JobID == uuid.Nil {
		return PrepareMessage{}, errors.New(errors.CodeInvalidParam,
			"prepare message carries no job id")
	}
	if _, err := structure.ParseID(m.PDBID); err != nil {
		return PrepareMessage{}, err
	}
	return m, nil
}
