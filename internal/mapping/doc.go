// Package mapping defines the intermediate representation of a DML document.
//
// A Mapping is produced by the parser and consumed, read-only, by the validator
// and the code generator. It mirrors the source document closely:
//
//	MAPPING orders {
//	    SOURCE CSV AS main { file: "main.csv" }
//	    SOURCE XML AS ref  { file: "reference.xml" root_element: "item" }
//	    COMPONENT DB {
//	        schema: "main.id INTEGER, ref.id INTEGER"
//	        query: "SELECT main.id, main.name, ref.status FROM main LEFT JOIN ref ON main.ref_id = ref.id"
//	    }
//	    TARGET JSON { file: "out.json" }
//	    RULES {
//	        map id -> OrderID AS integer
//	        map status -> Status DEFAULT "unknown"
//	    }
//	}
//
// # Statements
//
// RULES holds an ordered list of statements: MapRule, LoopRule, IfBlock and
// AggregateRule. Modifiers on a MapRule are kept in source order in
// MapRule.Modifiers so that duplicates can be reported by the validator; the
// typed fields hold the last occurrence of each.
//
// # Field references
//
// A FieldRef is an optional alias qualifier ("ref:status") followed by a path
// whose segments are separated by '/' or '.' ("Order/Items/Item",
// "Customer.Name"). Segments starting with '@' address XML attributes.
package mapping
