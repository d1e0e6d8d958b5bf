package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"voltstore/internal/core/audit"
	appctx "voltstore/internal/core/context"
	"voltstore/internal/core/id"
)

// CompressionAlgo specifies the compression algorithm used for payloads.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry is one persisted audit row.
type AuditEntry struct {
	ID                id.ID           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          string          `db:"entity_id"`
	Action            string          `db:"action"`
	UserID            string          `db:"user_id"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditService persists lifecycle events. Large payloads are compressed
// with zstd before insert.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes, default 10KB
}

// Compile-time check against the domain contract.
var _ audit.Recorder = (*AuditService)(nil)

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Record implements audit.Recorder.
func (s *AuditService) Record(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	entry := AuditEntry{
		ID:         id.New(),
		EntityType: event.Entity,
		EntityID:   event.EntityID,
		Action:     event.Action,
		UserID:     event.Actor,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}
	if entry.UserID == "" {
		entry.UserID = appctx.GetUserID(ctx)
	}

	entry.CompressionAlgo = CompressionNone
	if len(entry.Payload) > s.compressThreshold {
		entry.PayloadCompressed = s.encoder.EncodeAll(entry.Payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action, user_id,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql,
		entry.ID, entry.EntityType, entry.EntityID, entry.Action, entry.UserID,
		entry.Payload, entry.PayloadCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	)
	return err
}

// EntityHistory retrieves audit history for an entity, newest first.
// Compressed payloads are transparently decompressed.
func (s *AuditService) EntityHistory(ctx context.Context, entityType, entityID string, limit int) ([]AuditEntry, error) {
	sql := `
		SELECT id, entity_type, entity_id, action, user_id,
			   payload, payload_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.UserID,
			&e.Payload, &e.PayloadCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.PayloadCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
			e.Payload = decompressed
			e.PayloadCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
