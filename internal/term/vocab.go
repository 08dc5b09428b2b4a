package term

// Namespaces used by the reasoning core.
const (
	RDFNamespace    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace   = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace    = "http://www.w3.org/2001/XMLSchema#"
	LogNamespace    = "http://www.w3.org/2000/10/swap/log#"
	MathNamespace   = "http://www.w3.org/2000/10/swap/math#"
	StringNamespace = "http://www.w3.org/2000/10/swap/string#"
	ListNamespace   = "http://www.w3.org/2000/10/swap/list#"
	TimeNamespace   = "http://www.w3.org/2000/10/swap/time#"
)

// Well-known resources.
const (
	RDFFirst = IRI(RDFNamespace + "first")
	RDFRest  = IRI(RDFNamespace + "rest")
	RDFNil   = IRI(RDFNamespace + "nil")
	RDFType  = IRI(RDFNamespace + "type")

	RDFSResource = IRI(RDFSNamespace + "Resource")

	XSDString   = IRI(XSDNamespace + "string")
	XSDBoolean  = IRI(XSDNamespace + "boolean")
	XSDInteger  = IRI(XSDNamespace + "integer")
	XSDDecimal  = IRI(XSDNamespace + "decimal")
	XSDDouble   = IRI(XSDNamespace + "double")
	XSDDateTime = IRI(XSDNamespace + "dateTime")

	LogImplies = IRI(LogNamespace + "implies")
)
