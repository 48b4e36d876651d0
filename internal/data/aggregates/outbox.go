package aggregates

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/yungbote/orderdesk-backend/internal/data/repos"
	types "github.com/yungbote/orderdesk-backend/internal/domain"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
)

// appendEvent records a domain event in the caller's transaction. A nil repo
// disables event recording.
func appendEvent(dbc dbctx.Context, repo repos.OutboxRepo, topic, key string, payload any) error {
	if repo == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	_, err = repo.Append(dbc, []*types.OutboxEvent{{
		Topic:        topic,
		AggregateKey: key,
		Payload:      datatypes.JSON(raw),
	}})
	return err
}

func orderKey(id int64) string { return fmt.Sprintf("order:%d", id) }

func customerKey(taxID string) string { return "customer:" + taxID }
