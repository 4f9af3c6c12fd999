package repositories

import (
	"context"
	"log/slog"

	"workspace-chat/contract"
	"workspace-chat/domain/chat"

	"github.com/dgraph-io/badger/v4"
)

type ReadMarkerRepository struct {
	db  *badger.DB
	log *slog.Logger
}

var _ contract.ReadMarkerRepository = ReadMarkerRepository{}

func NewReadMarkerRepository(db *badger.DB, log *slog.Logger) ReadMarkerRepository {
	return ReadMarkerRepository{db: db, log: log}
}

// SaveMarker upserts the marker. Monotonicity is enforced by the caller.
func (r ReadMarkerRepository) SaveMarker(ctx context.Context, marker chat.ReadMarker) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		return putRecord(txn, markerKey(marker.ChannelID, marker.UserID), fromMarker(marker))
	})
	return storageErr(err)
}

func (r ReadMarkerRepository) ListMarkers(ctx context.Context, channelID chat.ChannelID) ([]chat.ReadMarker, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	var markers []chat.ReadMarker
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, markersPrefix(channelID), nil, true, func(_, value []byte) (bool, error) {
			var d diskMarker
			if err := unmarshal(value, &d); err != nil {
				return false, err
			}
			if d.ChannelID == string(channelID) {
				markers = append(markers, toMarker(d))
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return markers, nil
}
