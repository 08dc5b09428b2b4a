package term

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows a future algorithm migration.
const (
	DomainBinding   = "n3reason/binding/v1"
	DomainScope     = "n3reason/scope/v1"
	DomainSkolem    = "n3reason/skolem/v1"
	DomainStatement = "n3reason/statement/v1"
)

// hashWithDomain computes SHA-256(domain + 0x00 + data) as hex.
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// BindingHash identifies a solution by its bound values.
// Equal solutions hash equally regardless of map iteration order.
func BindingHash(sol Solution) string {
	obj := make(map[string]string, len(sol))
	for name, t := range sol {
		obj[name] = t.Key()
	}
	return hashWithDomain(DomainBinding, marshalCanonicalObject(obj))
}

// StatementID identifies a quad by content.
func StatementID(st Statement) string {
	parts := []string{st.Subject.Key(), st.Predicate.Key(), st.Object.Key()}
	if st.Graph != nil {
		parts = append(parts, st.Graph.Key())
	}
	return hashWithDomain(DomainStatement, marshalCanonicalArray(parts))
}

// SkolemID derives a stable blank node ID for an existential variable
// instantiated under a solution. scope identifies the producing formula.
// Re-deriving the same consequent under the same solution yields the same node.
func SkolemID(scope, variable string, sol Solution) string {
	obj := make(map[string]string, len(sol)+2)
	for name, t := range sol {
		obj["?"+name] = t.Key()
	}
	obj["scope"] = scope
	obj["var"] = variable
	return "sk_" + hashWithDomain(DomainSkolem, marshalCanonicalObject(obj))[:16]
}

// FormulaScope names the existential scope of f. It depends only on content,
// so recompiling an equal formula reuses the scope and its skolem IDs.
func FormulaScope(f *Formula) string {
	return "f" + hashWithDomain(DomainScope, []byte(f.Key()))[:12]
}
