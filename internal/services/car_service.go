package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/lib/pq"

	"github.com/cmtracker/backend/internal/models"
)

// ErrDuplicatePlate reports a normalized plate that is already registered.
var ErrDuplicatePlate = errors.New("duplicate license plate")

type CarService struct {
	db        *sql.DB
	idem      *IdempotencyStore
	validator *ValidationHelper
}

// CarInput is the wire request body for create and update. The amount
// fields use Amount so non-numeric input coerces to zero instead of
// rejecting the request.
type CarInput struct {
	ID                 int    `json:"id,omitempty"`
	LicensePlate       string `json:"licensePlate" validate:"required"`
	RegistrationNumber string `json:"registrationNumber"`
	Brand              string `json:"brand" validate:"required"`
	Model              string `json:"model"`
	Color              string `json:"color"`
	ChassisNo          string `json:"chassisNo"`
	EngineNo           string `json:"engineNo"`
	Finance            string `json:"finance"`
	FinanceStatus      string `json:"financeStatus" validate:"required"`
	RemainingAmount    Amount `json:"remainingAmount"`
	MonthlyPayment     Amount `json:"monthlyPayment"`
}

func NewCarService(db *sql.DB, redisClient *redis.Client) *CarService {
	return &CarService{
		db:        db,
		idem:      NewIdempotencyStore(redisClient),
		validator: NewValidationHelper(),
	}
}

var insertCarQuery = `
	INSERT INTO cars (
		license_plate, registration_number, brand, model, color, chassis_no,
		engine_no, finance, finance_status, remaining_amount, monthly_payment
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING ` + models.CarColumns

var updateCarQuery = `
	UPDATE cars SET
		license_plate = $1, registration_number = $2, brand = $3, model = $4, color = $5,
		chassis_no = $6, engine_no = $7, finance = $8, finance_status = $9,
		remaining_amount = $10, monthly_payment = $11
	WHERE financeid = $12
	RETURNING ` + models.CarColumns

// ListCars returns all car records, optionally filtered by plate substring
// @Summary List car records
// @Description Get all car records, or search by a case-insensitive license plate substring
// @Tags cars
// @Produce json
// @Param plate query string false "License plate substring filter"
// @Success 200 {array} models.Car
// @Failure 500 {object} ErrorResponse
// @Router /cars [get]
func (cs *CarService) ListCars(w http.ResponseWriter, r *http.Request) {
	plate := strings.TrimSpace(r.URL.Query().Get("plate"))

	query := `SELECT ` + models.CarColumns + ` FROM cars`
	args := []any{}
	if plate != "" {
		query += ` WHERE license_plate ILIKE $1`
		args = append(args, "%"+plate+"%")
	}
	query += ` ORDER BY financeid ASC`

	rows, err := cs.db.QueryContext(r.Context(), query, args...)
	if err != nil {
		log.Printf("[CARS] Failed to fetch car records: %v", err)
		SendErrorResponse(w, "Failed to fetch car records", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	cars := []models.Car{}
	for rows.Next() {
		car, err := models.ScanCar(rows)
		if err != nil {
			log.Printf("[CARS] Failed to scan car row: %v", err)
			SendErrorResponse(w, "Failed to fetch car records", http.StatusInternalServerError, nil)
			return
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[CARS] Row iteration failed: %v", err)
		SendErrorResponse(w, "Failed to fetch car records", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cars)
}

// CreateCar inserts a new car record
// @Summary Create a car record
// @Description Create a new car record; the license plate is normalized and must be unique
// @Tags cars
// @Accept json
// @Produce json
// @Param car body CarInput true "Car data"
// @Param Idempotency-Key header string false "Replay-safe key for retried creates"
// @Success 201 {object} models.Car
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cars [post]
func (cs *CarService) CreateCar(w http.ResponseWriter, r *http.Request) {
	var in CarInput

	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&in); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := cs.validator.ValidateStruct(&in); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	if err := validateCar(&in); err != nil {
		SendErrorResponse(w, fmt.Sprintf("Validation failed: %v", err), http.StatusBadRequest, nil)
		return
	}

	plate := NormalizePlate(in.LicensePlate)

	// Replay a recorded response for a retried create
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey != "" && cs.idem.Enabled() {
		stored, err := cs.idem.Lookup(r.Context(), idemKey)
		if err != nil {
			log.Printf("[CARS] Idempotency lookup failed for key %s: %v", idemKey, err)
		} else if stored != nil {
			log.Printf("[CARS] Replaying recorded response for idempotency key %s", idemKey)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Idempotency-Replayed", "true")
			w.WriteHeader(stored.Status)
			w.Write(stored.Body)
			return
		}
	}

	if err := cs.checkPlateUnique(r.Context(), plate, 0); err != nil {
		if errors.Is(err, ErrDuplicatePlate) {
			sendDuplicatePlate(w, plate)
			return
		}
		log.Printf("[CARS] Duplicate check failed for plate %s: %v", plate, err)
		SendErrorResponse(w, "Failed to create car record", http.StatusInternalServerError, nil)
		return
	}

	row := cs.db.QueryRowContext(r.Context(), insertCarQuery,
		plate,
		nullIfEmpty(in.RegistrationNumber),
		strings.TrimSpace(in.Brand),
		nullIfEmpty(in.Model),
		nullIfEmpty(in.Color),
		nullIfEmpty(in.ChassisNo),
		nullIfEmpty(in.EngineNo),
		nullIfEmpty(in.Finance),
		strings.TrimSpace(in.FinanceStatus),
		float64(in.RemainingAmount),
		float64(in.MonthlyPayment),
	)

	car, err := models.ScanCar(row)
	if err != nil {
		// The unique index is the authoritative duplicate signal; two
		// concurrent creates can both pass the pre-check above.
		if isUniqueViolation(err) {
			sendDuplicatePlate(w, plate)
			return
		}
		log.Printf("[CARS] Failed to insert car record for plate %s: %v", plate, err)
		SendErrorResponse(w, "Failed to create car record", http.StatusInternalServerError, nil)
		return
	}

	body, err := json.Marshal(car)
	if err != nil {
		log.Printf("[CARS] Failed to encode car record %d: %v", car.ID, err)
		SendErrorResponse(w, "Failed to create car record", http.StatusInternalServerError, nil)
		return
	}

	if idemKey != "" && cs.idem.Enabled() {
		if err := cs.idem.Save(r.Context(), idemKey, http.StatusCreated, body); err != nil {
			log.Printf("[CARS] Failed to record idempotent response for key %s: %v", idemKey, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write(body)
}

// UpdateCar replaces all mutable fields of an existing car record
// @Summary Update a car record
// @Description Replace the car record identified by id; the plate must stay unique among other records
// @Tags cars
// @Accept json
// @Produce json
// @Param id path int true "Car ID"
// @Param car body CarInput true "Car data"
// @Success 200 {object} models.Car
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cars/{id} [put]
func (cs *CarService) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		SendErrorResponse(w, "Invalid car id", http.StatusBadRequest, nil)
		return
	}

	var in CarInput

	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&in); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := cs.validator.ValidateStruct(&in); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	if err := validateCar(&in); err != nil {
		SendErrorResponse(w, fmt.Sprintf("Validation failed: %v", err), http.StatusBadRequest, nil)
		return
	}

	plate := NormalizePlate(in.LicensePlate)

	// A record may keep its own plate, so the updated row is excluded.
	if err := cs.checkPlateUnique(r.Context(), plate, id); err != nil {
		if errors.Is(err, ErrDuplicatePlate) {
			sendDuplicatePlate(w, plate)
			return
		}
		log.Printf("[CARS] Duplicate check failed for plate %s: %v", plate, err)
		SendErrorResponse(w, "Failed to update car record", http.StatusInternalServerError, nil)
		return
	}

	row := cs.db.QueryRowContext(r.Context(), updateCarQuery,
		plate,
		nullIfEmpty(in.RegistrationNumber),
		strings.TrimSpace(in.Brand),
		nullIfEmpty(in.Model),
		nullIfEmpty(in.Color),
		nullIfEmpty(in.ChassisNo),
		nullIfEmpty(in.EngineNo),
		nullIfEmpty(in.Finance),
		strings.TrimSpace(in.FinanceStatus),
		float64(in.RemainingAmount),
		float64(in.MonthlyPayment),
		id,
	)

	car, err := models.ScanCar(row)
	if err != nil {
		if err == sql.ErrNoRows {
			SendErrorResponse(w, fmt.Sprintf("Car with ID %d not found", id), http.StatusNotFound, nil)
			return
		}
		if isUniqueViolation(err) {
			sendDuplicatePlate(w, plate)
			return
		}
		log.Printf("[CARS] Failed to update car record %d: %v", id, err)
		SendErrorResponse(w, "Failed to update car record", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(car)
}

// DeleteCar removes a car record
// @Summary Delete a car record
// @Description Permanently delete the car record identified by id
// @Tags cars
// @Param id path int true "Car ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cars/{id} [delete]
func (cs *CarService) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		SendErrorResponse(w, "Invalid car id", http.StatusBadRequest, nil)
		return
	}

	var deletedID int
	err = cs.db.QueryRowContext(r.Context(),
		`DELETE FROM cars WHERE financeid = $1 RETURNING financeid`, id).Scan(&deletedID)
	if err != nil {
		if err == sql.ErrNoRows {
			SendErrorResponse(w, fmt.Sprintf("Car with ID %d not found", id), http.StatusNotFound, nil)
			return
		}
		log.Printf("[CARS] Failed to delete car record %d: %v", id, err)
		SendErrorResponse(w, "Failed to delete car record", http.StatusInternalServerError, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// checkPlateUnique is the uniqueness guard: any other live record with
// the same normalized plate is a conflict. excludeID > 0 leaves the
// record being updated out of the match set.
func (cs *CarService) checkPlateUnique(ctx context.Context, plate string, excludeID int) error {
	var id int
	var err error
	if excludeID > 0 {
		err = cs.db.QueryRowContext(ctx,
			`SELECT financeid FROM cars WHERE UPPER(license_plate) = $1 AND financeid <> $2`,
			plate, excludeID).Scan(&id)
	} else {
		err = cs.db.QueryRowContext(ctx,
			`SELECT financeid FROM cars WHERE UPPER(license_plate) = $1`, plate).Scan(&id)
	}
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	return ErrDuplicatePlate
}

// validateCar rejects required fields that are present but blank.
// Struct tag validation alone lets whitespace-only values through.
func validateCar(in *CarInput) error {
	if NormalizePlate(in.LicensePlate) == "" {
		return errors.New("licensePlate is required")
	}
	if strings.TrimSpace(in.Brand) == "" {
		return errors.New("brand is required")
	}
	if strings.TrimSpace(in.FinanceStatus) == "" {
		return errors.New("financeStatus is required")
	}
	return nil
}

func sendDuplicatePlate(w http.ResponseWriter, plate string) {
	SendErrorResponse(w, fmt.Sprintf("Duplicate license plate: '%s' is already registered", plate), http.StatusBadRequest, nil)
}

// nullIfEmpty stores absent optional fields as explicit SQL NULL.
func nullIfEmpty(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
