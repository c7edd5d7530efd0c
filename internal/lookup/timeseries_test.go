package lookup

import (
	"testing"

	"rfa-explorer/internal/domain"
)

func TestPriceAt_EmptySlice(t *testing.T) {
	_, err := PriceAt(1000, nil)
	if err != ErrNoPriceData {
		t.Errorf("expected ErrNoPriceData, got %v", err)
	}

	_, err = PriceAt(1000, []domain.PricePoint{})
	if err != ErrNoPriceData {
		t.Errorf("expected ErrNoPriceData, got %v", err)
	}
}

func TestPriceAt_ExactMatch(t *testing.T) {
	prices := []domain.PricePoint{
		{Timestamp: 1000, Price: 1.0},
		{Timestamp: 2000, Price: 2.0},
		{Timestamp: 3000, Price: 3.0},
	}

	price, err := PriceAt(2000, prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 2.0 {
		t.Errorf("expected 2.0, got %f", price)
	}
}

func TestPriceAt_BeforeTarget(t *testing.T) {
	prices := []domain.PricePoint{
		{Timestamp: 1000, Price: 1.0},
		{Timestamp: 2000, Price: 2.0},
		{Timestamp: 3000, Price: 3.0},
	}

	// Target 2500 should return price at 2000
	price, err := PriceAt(2500, prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 2.0 {
		t.Errorf("expected 2.0, got %f", price)
	}
}

func TestPriceAt_BeforeFirst(t *testing.T) {
	prices := []domain.PricePoint{
		{Timestamp: 1000, Price: 1.0},
		{Timestamp: 2000, Price: 2.0},
	}

	// Target 500 should return first price (1.0)
	price, err := PriceAt(500, prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 1.0 {
		t.Errorf("expected 1.0, got %f", price)
	}
}

func TestPriceAt_AfterLast(t *testing.T) {
	prices := []domain.PricePoint{
		{Timestamp: 1000, Price: 1.0},
		{Timestamp: 3000, Price: 3.0},
	}

	price, err := PriceAt(9000, prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 3.0 {
		t.Errorf("expected 3.0, got %f", price)
	}
}

func TestLatest(t *testing.T) {
	if _, err := Latest(nil); err != ErrNoPriceData {
		t.Errorf("expected ErrNoPriceData, got %v", err)
	}

	p, err := Latest([]domain.PricePoint{{Timestamp: 1, Price: 1}, {Timestamp: 2, Price: 5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Price != 5 || p.Timestamp != 2 {
		t.Errorf("expected last point, got %+v", p)
	}
}
