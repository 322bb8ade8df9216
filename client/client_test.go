package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func noBackoff(int) time.Duration { return 0 }

func TestClient_ListCars(t *testing.T) {
	t.Run("passes plate filter as query parameter", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("plate")
			json.NewEncoder(w).Encode([]Car{{ID: 1, LicensePlate: "AB1234", Brand: "Toyota", FinanceStatus: "installment"}})
		}))
		defer srv.Close()

		c := New(srv.URL, WithBackoff(noBackoff))
		cars, err := c.ListCars(context.Background(), "AB 12")
		assert.NoError(t, err)
		assert.Equal(t, "AB 12", gotQuery)
		assert.Len(t, cars, 1)
		assert.Equal(t, "AB1234", cars[0].LicensePlate)
	})

	t.Run("retries transient server errors up to three attempts", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode([]Car{})
		}))
		defer srv.Close()

		c := New(srv.URL, WithBackoff(noBackoff))
		cars, err := c.ListCars(context.Background(), "")
		assert.NoError(t, err)
		assert.Empty(t, cars)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := New(srv.URL, WithBackoff(noBackoff))
		_, err := c.ListCars(context.Background(), "")
		assert.Error(t, err)
		assert.Equal(t, 3, attempts)
		assert.Contains(t, err.Error(), "after 3 attempts")

		var apiErr *APIError
		assert.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	})
}

func TestClient_CreateCar(t *testing.T) {
	t.Run("keeps the same idempotency key across retries", func(t *testing.T) {
		var keys []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			keys = append(keys, r.Header.Get("Idempotency-Key"))
			if len(keys) < 3 {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Car{ID: 7, LicensePlate: "AB1234", Brand: "Toyota", FinanceStatus: "installment"})
		}))
		defer srv.Close()

		c := New(srv.URL, WithBackoff(noBackoff))
		created, err := c.CreateCar(context.Background(), Car{LicensePlate: "ab 1234", Brand: "Toyota", FinanceStatus: "installment"})
		assert.NoError(t, err)
		assert.Equal(t, 7, created.ID)

		assert.Len(t, keys, 3)
		assert.NotEmpty(t, keys[0])
		assert.Equal(t, keys[0], keys[1])
		assert.Equal(t, keys[0], keys[2])
	})

	t.Run("validation errors are terminal, never retried", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Duplicate license plate: 'AB1234' is already registered"})
		}))
		defer srv.Close()

		c := New(srv.URL, WithBackoff(noBackoff))
		_, err := c.CreateCar(context.Background(), Car{LicensePlate: "AB1234", Brand: "Toyota", FinanceStatus: "installment"})

		assert.Equal(t, 1, attempts)

		var apiErr *APIError
		assert.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "AB1234")
	})

	t.Run("distinct creates use distinct keys", func(t *testing.T) {
		var keys []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			keys = append(keys, r.Header.Get("Idempotency-Key"))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Car{ID: len(keys)})
		}))
		defer srv.Close()

		c := New(srv.URL, WithBackoff(noBackoff))
		_, err := c.CreateCar(context.Background(), Car{LicensePlate: "AB1234", Brand: "Toyota", FinanceStatus: "installment"})
		assert.NoError(t, err)
		_, err = c.CreateCar(context.Background(), Car{LicensePlate: "CD5678", Brand: "Honda", FinanceStatus: "fully paid"})
		assert.NoError(t, err)

		assert.Len(t, keys, 2)
		assert.NotEqual(t, keys[0], keys[1])
	})
}

func TestClient_UpdateCar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/cars/3", r.URL.Path)
		json.NewEncoder(w).Encode(Car{ID: 3, LicensePlate: "AB1234", Brand: "Toyota", FinanceStatus: "fully paid"})
	}))
	defer srv.Close()

	c := New(srv.URL, WithBackoff(noBackoff))
	updated, err := c.UpdateCar(context.Background(), 3, Car{LicensePlate: "AB1234", Brand: "Toyota", FinanceStatus: "fully paid"})
	assert.NoError(t, err)
	assert.Equal(t, 3, updated.ID)
	assert.Equal(t, "fully paid", updated.FinanceStatus)
}

func TestClient_DeleteCar(t *testing.T) {
	t.Run("success on 204", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/api/cars/5", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := New(srv.URL, WithBackoff(noBackoff))
		assert.NoError(t, c.DeleteCar(context.Background(), 5))
	})

	t.Run("missing record surfaces 404", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Car with ID 5 not found"})
		}))
		defer srv.Close()

		c := New(srv.URL, WithBackoff(noBackoff))
		err := c.DeleteCar(context.Background(), 5)

		var apiErr *APIError
		assert.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})
}

func TestClient_NetworkErrorRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // all connections now fail

	c := New(srv.URL, WithBackoff(noBackoff))
	_, err := c.ListCars(context.Background(), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestDefaultBackoff(t *testing.T) {
	assert.Equal(t, time.Second, defaultBackoff(0))
	assert.Equal(t, 2*time.Second, defaultBackoff(1))
}
