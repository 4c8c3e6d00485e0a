package market

import (
	"strings"
	"time"

	"github.com/marketlens/backend/internal/domain/shared"
)

// Limits for stock fields
const (
	MaxSymbolLength      = 20
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
)

// Stock represents a listed company tracked by the service.
// The symbol is stored upper-case and is unique across the catalog.
type Stock struct {
	shared.BaseAggregateRoot
	Name        string    `gorm:"type:varchar(200);not null"`
	Symbol      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_stocks_symbol"`
	Founded     time.Time `gorm:"not null"`
	Description string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Stock) TableName() string {
	return "stocks"
}

// NewStock creates a new stock
func NewStock(name, symbol string, founded time.Time, description string) (*Stock, error) {
	if err := validateStockName(name); err != nil {
		return nil, err
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if founded.IsZero() {
		return nil, shared.NewDomainError("INVALID_FOUNDED", "Founded date is required")
	}
	if len(description) > MaxDescriptionLength {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description is too long")
	}

	return &Stock{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Symbol:            NormalizeSymbol(symbol),
		Founded:           founded,
		Description:       description,
	}, nil
}

// Rename updates the stock's display name
func (s *Stock) Rename(name string) error {
	if err := validateStockName(name); err != nil {
		return err
	}
	s.Name = name
	s.touch()
	return nil
}

// ChangeSymbol updates the ticker symbol
func (s *Stock) ChangeSymbol(symbol string) error {
	if err := ValidateSymbol(symbol); err != nil {
		return err
	}
	s.Symbol = NormalizeSymbol(symbol)
	s.touch()
	return nil
}

// SetFounded updates the founding date
func (s *Stock) SetFounded(founded time.Time) error {
	if founded.IsZero() {
		return shared.NewDomainError("INVALID_FOUNDED", "Founded date is required")
	}
	s.Founded = founded
	s.touch()
	return nil
}

// SetDescription updates the free-form description
func (s *Stock) SetDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description is too long")
	}
	s.Description = description
	s.touch()
	return nil
}

func (s *Stock) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// NormalizeSymbol converts a ticker symbol to its canonical upper-case form
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol checks a ticker symbol for basic validity
func ValidateSymbol(symbol string) error {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return shared.NewDomainError("INVALID_SYMBOL", "Symbol is required")
	}
	if len(symbol) > MaxSymbolLength {
		return shared.NewDomainError("INVALID_SYMBOL", "Symbol is too long")
	}
	for _, r := range symbol {
		if !isSymbolRune(r) {
			return shared.NewDomainError("INVALID_SYMBOL", "Symbol may only contain letters, digits, dots and dashes")
		}
	}
	return nil
}

func isSymbolRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '-':
		return true
	}
	return false
}

func validateStockName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Name is required")
	}
	if len(name) > MaxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Name is too long")
	}
	return nil
}
