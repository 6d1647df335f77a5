// Package description loads the YAML description of a mapping: the
// resources to read, the attributes located in them, the alignments
// between attributes, and the semantic model to produce.
//
// Pipeline:
//  1. Parse the YAML file (LoadFile / Parse) and apply defaults
//  2. Validate references, paths and alignments (Validate), collecting
//     diagnostics with suggestions for unknown names
//  3. Compile into attributes, alignments, a semantic model and the
//     resource sources (Build)
//  4. Optionally write the planner's choices back out for review
//     (ExportSuggestions)
//
// Example:
//
//	version: "1"
//	resources:
//	  - id: company
//	    type: csv
//	    path: company.csv
//	attributes:
//	  - id: name
//	    path: "$[1:][0]"
//	    unique: true
//	  - id: phone
//	    path: "$[1:][1]"
//	    missing_values: [""]
//	semantic_model:
//	  prefixes:
//	    schema: "http://schema.org/"
//	  classes:
//	    - id: company
//	      uri: schema:Organization
//	      properties:
//	        - {predicate: drepr:uri, attribute: name}
//	        - {predicate: schema:telephone, attribute: phone}
package description
