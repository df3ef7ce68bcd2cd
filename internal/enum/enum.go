package enum

// ── Order lifecycle (server-owned, backend decides PLACED vs UNFULFILLABLE) ──

const (
	OrderStatusPlaced        = "PLACED"
	OrderStatusUnfulfillable = "UNFULFILLABLE"
	OrderStatusInvoiced      = "INVOICED"
	OrderStatusCancelled     = "CANCELLED"
)

// ── Bulk import row outcomes (as emitted in the result TSV) ──

const (
	ImportRowSuccess = "SUCCESS"
	ImportRowOK      = "OK"
	ImportRowFailed  = "FAILED"
	ImportRowSkipped = "SKIPPED"
)

// ── Import dataset kinds ──

const (
	ImportKindProducts  = "products"
	ImportKindInventory = "inventory"
)

// IsValidOrderStatus reports whether s is one of the four order statuses.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPlaced, OrderStatusUnfulfillable,
		OrderStatusInvoiced, OrderStatusCancelled:
		return true
	}
	return false
}

// IsValidImportKind reports whether k names a known bulk-import dataset.
func IsValidImportKind(k string) bool {
	switch k {
	case ImportKindProducts, ImportKindInventory:
		return true
	}
	return false
}
