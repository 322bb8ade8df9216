package models

// Car represents a vehicle-finance record. JSON tags carry the wire
// (camelCase) names, db tags the storage column names. The primary-key
// column is financeid in Postgres but is always exposed as "id" on the
// wire; the mapping lives here and in CarColumns/ScanCar so a renamed
// column fails at compile/scan time instead of silently dropping a key.
type Car struct {
	ID                 int     `json:"id" db:"financeid"`
	LicensePlate       string  `json:"licensePlate" db:"license_plate"`
	RegistrationNumber *string `json:"registrationNumber" db:"registration_number"`
	Brand              string  `json:"brand" db:"brand"`
	Model              *string `json:"model" db:"model"`
	Color              *string `json:"color" db:"color"`
	ChassisNo          *string `json:"chassisNo" db:"chassis_no"`
	EngineNo           *string `json:"engineNo" db:"engine_no"`
	Finance            *string `json:"finance" db:"finance"`
	FinanceStatus      string  `json:"financeStatus" db:"finance_status"`
	RemainingAmount    float64 `json:"remainingAmount" db:"remaining_amount"`
	MonthlyPayment     float64 `json:"monthlyPayment" db:"monthly_payment"`
}

// CarColumns is the select list every cars query uses. Order must match
// the Scan targets in ScanCar.
const CarColumns = `financeid, license_plate, registration_number, brand, model, color, chassis_no, engine_no, finance, finance_status, remaining_amount, monthly_payment`

// RowScanner is satisfied by both *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanCar reads one cars row into wire representation. NULL columns
// land as nil pointers and serialize as JSON null.
func ScanCar(row RowScanner) (Car, error) {
	var c Car
	err := row.Scan(
		&c.ID,
		&c.LicensePlate,
		&c.RegistrationNumber,
		&c.Brand,
		&c.Model,
		&c.Color,
		&c.ChassisNo,
		&c.EngineNo,
		&c.Finance,
		&c.FinanceStatus,
		&c.RemainingAmount,
		&c.MonthlyPayment,
	)
	return c, err
}
