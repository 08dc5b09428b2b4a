// Package harness runs reasoning scenarios written in YAML.
//
// A scenario asserts facts and rules, reasons to a fixpoint and checks the
// conclusions. Terms are written as tokens so scenarios stay independent of
// any N3 parser.
//
// # Scenario Format
//
//	name: home_region
//	description: "People live in the region of their city"
//	now: "2024-03-09T14:30:05Z"   # optional, read by time builtins
//	options:
//	  think: true                  # default true
//	  max_rounds: 10
//	facts:
//	  - [":alice", ":livesIn", ":paris"]
//	  - [":paris", ":locatedIn", ":france"]
//	rules:
//	  - if:
//	      - ["?p", ":livesIn", "?c"]
//	      - ["?c", ":locatedIn", "?r"]
//	    then:
//	      - ["?p", ":homeRegion", "?r"]
//	expect:
//	  - [":alice", ":homeRegion", ":france"]
//	absent:
//	  - [":paris", ":homeRegion", "?any"]
//
// # Term Tokens
//
//   - ?x: universal variable
//   - _:b: blank node; in expect and absent it matches any node
//   - <http://...> or prefix:local: IRI, with "a" for rdf:type and "=>" for log:implies
//   - '"text"', '"text"@en' and '"1"^^xsd:int': literals, double quotes included
//
// Tokens starting with "?" or ":" must be YAML-quoted inside flow sequences.
//   - YAML numbers and booleans: xsd:integer, xsd:decimal, xsd:double, xsd:boolean
//   - YAML sequences: lists
//   - {graph: [triples]}: quoted formula
//
// # Deterministic Testing
//
// Every run reads time from testutil.FixedClock and names fresh nodes with
// testutil.SequenceGenerator, so conclusions are byte-identical across runs
// and can be compared against golden files with RunWithGolden.
package harness
