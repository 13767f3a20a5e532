package service

import (
	"sort"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
)

// Identity policies: the id-or-name fallback chains used to group rows are
// defined once here so no two report builders can drift apart.

// customerKey identifies the customer of an order: id, else free-text name,
// else the shared "sem-cliente" key.
func customerKey(o domain.Order) string {
	if o.CustomerID != nil && *o.CustomerID != "" {
		return *o.CustomerID
	}
	if o.CustomerName != nil && *o.CustomerName != "" {
		return *o.CustomerName
	}
	return domain.SemClienteKey
}

// orderItemProductKey identifies the product of an order line: id else name.
func orderItemProductKey(it domain.OrderItem) string {
	if it.ProductID != nil && *it.ProductID != "" {
		return *it.ProductID
	}
	return it.ProductName
}

// saleItemProductKey identifies the product of a POS line: id else name.
func saleItemProductKey(it domain.SaleItem) string {
	if it.ProductID != nil && *it.ProductID != "" {
		return *it.ProductID
	}
	return it.ProductName
}

// groupBy collects items under the key the extractor derives for each.
func groupBy[T any, K comparable](items []T, key func(T) K) map[K][]T {
	out := make(map[K][]T)
	for _, item := range items {
		k := key(item)
		out[k] = append(out[k], item)
	}
	return out
}

// topN sorts a copy of items by the given less function and returns at most
// n of them. The input slice is left untouched.
func topN[T any](items []T, n int, less func(a, b T) bool) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
