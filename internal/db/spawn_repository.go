package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/otspawn/internal/model"
	"github.com/udisondev/otspawn/internal/spawn"
)

// SpawnRepository stores spawn areas. It is a spawn.Source.
type SpawnRepository struct {
	pool *pgxpool.Pool
}

// NewSpawnRepository creates a new spawn repository
func NewSpawnRepository(pool *pgxpool.Pool) *SpawnRepository {
	return &SpawnRepository{pool: pool}
}

// Name identifies the source in logs.
func (r *SpawnRepository) Name() string {
	return "postgres:spawn_areas"
}

// LoadAreas loads all areas with their entries, in id order.
func (r *SpawnRepository) LoadAreas(ctx context.Context) ([]spawn.AreaDef, error) {
	query := `
		SELECT a.id, a.center_x, a.center_y, a.center_z, a.radius,
		       e.name, e.offset_x, e.offset_y, e.direction, e.spawn_time, e.weight
		FROM spawn_areas a
		LEFT JOIN spawn_entries e ON e.area_id = a.id
		ORDER BY a.id, e.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading spawn areas: %w", err)
	}
	defer rows.Close()

	var (
		areas  []spawn.AreaDef
		lastID int64 = -1
	)

	for rows.Next() {
		var (
			areaID            int64
			cx, cy            int32
			cz                int16
			radius            int32
			name              *string
			offsetX, offsetY  *int16
			direction         *int16
			spawnTime, weight *int32
		)

		if err := rows.Scan(&areaID, &cx, &cy, &cz, &radius,
			&name, &offsetX, &offsetY, &direction, &spawnTime, &weight); err != nil {
			return nil, fmt.Errorf("scanning spawn row: %w", err)
		}

		if areaID != lastID {
			areas = append(areas, spawn.AreaDef{
				Center: model.NewPosition(uint16(cx), uint16(cy), uint8(cz)),
				Radius: radius,
			})
			lastID = areaID
		}

		if name == nil {
			continue // area without entries
		}

		area := &areas[len(areas)-1]
		area.Entries = append(area.Entries, spawn.EntryDef{
			Name:      *name,
			OffsetX:   *offsetX,
			OffsetY:   *offsetY,
			Direction: model.Direction(*direction),
			SpawnTime: uint32(*spawnTime),
			Weight:    uint32(*weight),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spawn rows: %w", err)
	}

	return areas, nil
}

// ReplaceAreas deletes all stored areas and inserts the given ones in one transaction.
func (r *SpawnRepository) ReplaceAreas(ctx context.Context, areas []spawn.AreaDef) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `DELETE FROM spawn_areas`); err != nil {
		return fmt.Errorf("deleting spawn areas: %w", err)
	}

	for i, area := range areas {
		var areaID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO spawn_areas (center_x, center_y, center_z, radius)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			int32(area.Center.X), int32(area.Center.Y), int16(area.Center.Z), area.Radius,
		).Scan(&areaID)
		if err != nil {
			return fmt.Errorf("inserting spawn area %d: %w", i, err)
		}

		batch := &pgx.Batch{}
		for _, e := range area.Entries {
			batch.Queue(
				`INSERT INTO spawn_entries (area_id, name, offset_x, offset_y, direction, spawn_time, weight)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				areaID, e.Name, e.OffsetX, e.OffsetY, int16(e.Direction), int32(e.SpawnTime), int32(e.Weight),
			)
		}
		if batch.Len() == 0 {
			continue
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting entries of spawn area %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing spawn areas: %w", err)
	}
	return nil
}
