package utils

import "github.com/gosimple/slug"

// ContentKey normalises an academy content id ("Orçamento Básico" →
// "orcamento-basico") so the same module is never counted twice.
func ContentKey(raw string) string {
	return slug.Make(raw)
}
