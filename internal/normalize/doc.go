// Package normalize turns raw extract rows into staging records: cleaned
// programs plus university and specialty dimension candidates.
//
// The keyword tables here are ordered and the first hit wins. Reordering an
// entry changes results, so treat the order as part of the behaviour.
package normalize
