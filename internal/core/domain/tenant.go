package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TenantID identifies an isolated index: one shop or the store-wide catalog.
type TenantID string

// CatalogTenant is the store-wide product catalog tenant.
const CatalogTenant TenantID = "catalog"

const shopPrefix = "shop-"

// ShopTenant returns the tenant ID for a shop.
func ShopTenant(shopID int64) TenantID {
	return TenantID(shopPrefix + strconv.FormatInt(shopID, 10))
}

// ParseTenant accepts "catalog", "shop-<id>" or a bare shop id.
func ParseTenant(s string) (TenantID, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == string(CatalogTenant) {
		return CatalogTenant, nil
	}
	raw := strings.TrimPrefix(s, shopPrefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return "", fmt.Errorf("%w: tenant %q", ErrInvalidInput, s)
	}
	return ShopTenant(id), nil
}

// IsCatalog reports whether t is the catalog tenant.
func (t TenantID) IsCatalog() bool {
	return t == CatalogTenant
}

// ShopID returns the shop id for a shop tenant.
func (t TenantID) ShopID() (int64, bool) {
	raw, ok := strings.CutPrefix(string(t), shopPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Validate returns ErrInvalidInput for malformed tenant IDs.
func (t TenantID) Validate() error {
	if t.IsCatalog() {
		return nil
	}
	if _, ok := t.ShopID(); ok {
		return nil
	}
	return fmt.Errorf("%w: tenant %q", ErrInvalidInput, string(t))
}

// String returns the string representation.
func (t TenantID) String() string {
	return string(t)
}
