package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"

	"github.com/skip2/go-qrcode"

	"github.com/cmtracker/backend/internal/models"
)

// ErrInvalidQR reports a scanned payload that does not decode to a car
// record reference.
var ErrInvalidQR = errors.New("invalid QR payload")

// QRService produces scannable tags for car records. A printed tag on a
// vehicle file encodes the record id and plate; scanning it resolves to
// the current record.
type QRService struct {
	db *sql.DB
}

func NewQRService(db *sql.DB) *QRService {
	return &QRService{db: db}
}

type qrPayload struct {
	ID           int    `json:"id"`
	LicensePlate string `json:"licensePlate"`
}

// GenerateCarQR returns the encoded payload and a base64 PNG QR image
// for the record identified by id. sql.ErrNoRows passes through when
// the record does not exist.
func (s *QRService) GenerateCarQR(ctx context.Context, id int) (string, string, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+models.CarColumns+` FROM cars WHERE financeid = $1`, id)
	car, err := models.ScanCar(row)
	if err != nil {
		return "", "", err
	}

	jsonData, err := json.Marshal(qrPayload{ID: car.ID, LicensePlate: car.LicensePlate})
	if err != nil {
		return "", "", err
	}

	payload := base64.URLEncoding.EncodeToString(jsonData)

	qr, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return "", "", err
	}

	return payload, base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ResolveCarQR maps a scanned payload back to the live record, so the
// result reflects edits made after the tag was printed.
func (s *QRService) ResolveCarQR(ctx context.Context, payload string) (models.Car, error) {
	jsonData, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return models.Car{}, ErrInvalidQR
	}

	var ref qrPayload
	if err := json.Unmarshal(jsonData, &ref); err != nil || ref.ID <= 0 {
		return models.Car{}, ErrInvalidQR
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+models.CarColumns+` FROM cars WHERE financeid = $1`, ref.ID)
	return models.ScanCar(row)
}
