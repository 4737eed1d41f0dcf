package storage

import (
	"database/sql"
	"errors"

	"stridewms/internal"
)

func (d *DB) InsertLocation(l internal.Location) (int64, error) {
	result, err := d.conn.Exec(`
INSERT INTO locations (name, warehouseName, type, status) VALUES (?, ?, ?, ?)
`, l.Name, l.WarehouseName, l.Type, l.Status)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) ListLocations() ([]internal.Location, error) {
	rows, err := d.conn.Query(`SELECT id, name, warehouseName, type, status FROM locations ORDER BY warehouseName, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Location
	for rows.Next() {
		var l internal.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.WarehouseName, &l.Type, &l.Status); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (d *DB) GetLocation(id int) (*internal.Location, error) {
	var l internal.Location
	err := d.conn.QueryRow(`SELECT id, name, warehouseName, type, status FROM locations WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &l.WarehouseName, &l.Type, &l.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (d *DB) UpdateLocationStatus(id int, status string) error {
	_, err := d.conn.Exec(`UPDATE locations SET status = ? WHERE id = ?`, status, id)
	return err
}
