// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	"github.com/piprate/json-gold/v2/ld"
)

// printDocument prints v as indented JSON with sorted keys.
func printDocument(msg string, v ld.Value) {
	canonical, err := ld.CanonicalJSON(v)
	if err != nil {
		log.Println("Error when rendering JSON-LD document:", err)
		return
	}
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(canonical), "", "  "); err != nil {
		log.Println("Error when rendering JSON-LD document:", err)
		return
	}
	fmt.Println(msg)
	fmt.Println(out.String())
}

func mustParse(s string) ld.Value {
	v, err := ld.ParseJSON([]byte(s))
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func ExampleJsonLdProcessor_Expand() {
	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")

	doc := mustParse(`{
		"@context": {
			"@vocab": "http://schema.org/",
			"url": {"@type": "@id"}
		},
		"@type": "Person",
		"name": "Jane Doe",
		"jobTitle": "Professor",
		"url": "http://www.janedoe.com"
	}`)

	expanded, err := proc.Expand(doc, options)
	if err != nil {
		log.Println("Error when expanding JSON-LD document:", err)
		return
	}

	printDocument("JSON-LD expansion succeeded", expanded)

	// Output:
	// JSON-LD expansion succeeded
	// [
	//   {
	//     "@type": [
	//       "http://schema.org/Person"
	//     ],
	//     "http://schema.org/jobTitle": [
	//       {
	//         "@value": "Professor"
	//       }
	//     ],
	//     "http://schema.org/name": [
	//       {
	//         "@value": "Jane Doe"
	//       }
	//     ],
	//     "http://schema.org/url": [
	//       {
	//         "@id": "http://www.janedoe.com"
	//       }
	//     ]
	//   }
	// ]
}

func ExampleJsonLdProcessor_Compact() {
	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")

	doc := mustParse(`{
		"@id": "http://example.org/test#book",
		"http://example.org/vocab#contains": {"@id": "http://example.org/test#chapter"},
		"http://purl.org/dc/elements/1.1/title": "Title"
	}`)

	context := mustParse(`{
		"@context": {
			"dc": "http://purl.org/dc/elements/1.1/",
			"ex": "http://example.org/vocab#",
			"ex:contains": {"@type": "@id"}
		}
	}`)

	compactedDoc, err := proc.Compact(doc, context, options)
	if err != nil {
		log.Println("Error when compacting JSON-LD document:", err)
		return
	}

	printDocument("JSON-LD compact doc", compactedDoc)

	// Output:
	// JSON-LD compact doc
	// {
	//   "@context": {
	//     "dc": "http://purl.org/dc/elements/1.1/",
	//     "ex": "http://example.org/vocab#",
	//     "ex:contains": {
	//       "@type": "@id"
	//     }
	//   },
	//   "@id": "http://example.org/test#book",
	//   "dc:title": "Title",
	//   "ex:contains": "http://example.org/test#chapter"
	// }
}

func ExampleJsonLdProcessor_Flatten() {
	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")

	doc := mustParse(`{
		"@context": [
			{
				"name": "http://xmlns.com/foaf/0.1/name",
				"homepage": {"@id": "http://xmlns.com/foaf/0.1/homepage", "@type": "@id"}
			},
			{"ical": "http://www.w3.org/2002/12/cal/ical#"}
		],
		"@id": "http://example.com/speakers#Alice",
		"name": "Alice",
		"homepage": "http://xkcd.com/177/",
		"ical:summary": "Alice Talk",
		"ical:location": "Lyon Convention Centre, Lyon, France"
	}`)

	flattenedDoc, err := proc.Flatten(doc, ld.Null, options)
	if err != nil {
		log.Println("Error when flattening JSON-LD document:", err)
		return
	}

	printDocument("JSON-LD flattened doc", flattenedDoc)

	// Output:
	// JSON-LD flattened doc
	// [
	//   {
	//     "@id": "http://example.com/speakers#Alice",
	//     "http://www.w3.org/2002/12/cal/ical#location": [
	//       {
	//         "@value": "Lyon Convention Centre, Lyon, France"
	//       }
	//     ],
	//     "http://www.w3.org/2002/12/cal/ical#summary": [
	//       {
	//         "@value": "Alice Talk"
	//       }
	//     ],
	//     "http://xmlns.com/foaf/0.1/homepage": [
	//       {
	//         "@id": "http://xkcd.com/177/"
	//       }
	//     ],
	//     "http://xmlns.com/foaf/0.1/name": [
	//       {
	//         "@value": "Alice"
	//       }
	//     ]
	//   }
	// ]
}

func ExampleJsonLdProcessor_Frame() {
	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")

	doc := mustParse(`{
		"@context": {
			"dc": "http://purl.org/dc/elements/1.1/",
			"ex": "http://example.org/vocab#",
			"ex:contains": {"@type": "@id"}
		},
		"@graph": [
			{
				"@id": "http://example.org/test/#library",
				"@type": "ex:Library",
				"ex:contains": "http://example.org/test#book"
			},
			{
				"@id": "http://example.org/test#book",
				"@type": "ex:Book",
				"dc:contributor": "Writer",
				"dc:title": "My Book",
				"ex:contains": "http://example.org/test#chapter"
			},
			{
				"@id": "http://example.org/test#chapter",
				"@type": "ex:Chapter",
				"dc:description": "Fun",
				"dc:title": "Chapter One"
			}
		]
	}`)

	frame := mustParse(`{
		"@context": {
			"dc": "http://purl.org/dc/elements/1.1/",
			"ex": "http://example.org/vocab#"
		},
		"@type": "ex:Library",
		"ex:contains": {
			"@type": "ex:Book",
			"ex:contains": {"@type": "ex:Chapter"}
		}
	}`)

	framedDoc, err := proc.Frame(doc, frame, options)
	if err != nil {
		log.Println("Error when framing JSON-LD document:", err)
		return
	}

	printDocument("JSON-LD framed doc", framedDoc)

	// Output:
	// JSON-LD framed doc
	// {
	//   "@context": {
	//     "dc": "http://purl.org/dc/elements/1.1/",
	//     "ex": "http://example.org/vocab#"
	//   },
	//   "@graph": [
	//     {
	//       "@id": "http://example.org/test/#library",
	//       "@type": "ex:Library",
	//       "ex:contains": {
	//         "@id": "http://example.org/test#book",
	//         "@type": "ex:Book",
	//         "dc:contributor": "Writer",
	//         "dc:title": "My Book",
	//         "ex:contains": {
	//           "@id": "http://example.org/test#chapter",
	//           "@type": "ex:Chapter",
	//           "dc:description": "Fun",
	//           "dc:title": "Chapter One"
	//         }
	//       }
	//     }
	//   ]
	// }
}

func ExampleJsonLdProcessor_ToRDF() {
	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")

	doc := mustParse(`{
		"@context": {
			"sec": "http://purl.org/security#",
			"xsd": "http://www.w3.org/2001/XMLSchema#",
			"rdf": "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
			"dc": "http://purl.org/dc/terms/",
			"sec:signer": {"@type": "@id"},
			"dc:created": {"@type": "xsd:dateTime"}
		},
		"@id": "http://example.org/sig1",
		"@type": ["rdf:Graph", "sec:SignedGraph"],
		"dc:created": "2011-09-23T20:21:34Z",
		"sec:signer": "http://payswarm.example.com/i/john/keys/5",
		"sec:signatureValue": "OGQzNGVkMzVm4NTIyZTkZDYMmMzQzNmExMgoYzI43Q3ODIyOWM32NjI=",
		"@graph": {
			"@id": "http://example.org/fact1",
			"dc:title": "Hello World!"
		}
	}`)

	dataset, err := proc.ToRDF(doc, options)
	if err != nil {
		log.Println("Error running ToRDF:", err)
		return
	}

	nquads, err := ld.SerializeNQuads(dataset)
	if err != nil {
		log.Println("Error serializing N-Quads:", err)
		return
	}
	fmt.Print(nquads)

	// Output:
	// <http://example.org/fact1> <http://purl.org/dc/terms/title> "Hello World!" <http://example.org/sig1> .
	// <http://example.org/sig1> <http://purl.org/dc/terms/created> "2011-09-23T20:21:34Z"^^<http://www.w3.org/2001/XMLSchema#dateTime> .
	// <http://example.org/sig1> <http://purl.org/security#signatureValue> "OGQzNGVkMzVm4NTIyZTkZDYMmMzQzNmExMgoYzI43Q3ODIyOWM32NjI=" .
	// <http://example.org/sig1> <http://purl.org/security#signer> <http://payswarm.example.com/i/john/keys/5> .
	// <http://example.org/sig1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://purl.org/security#SignedGraph> .
	// <http://example.org/sig1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/1999/02/22-rdf-syntax-ns#Graph> .
}

func ExampleJsonLdProcessor_FromRDF() {
	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")

	triples := `<http://example.com/Subj1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.com/Type> .
<http://example.com/Subj1> <http://example.com/prop1> <http://example.com/Obj1> .
<http://example.com/Subj1> <http://example.com/prop2> "Plain" .
<http://example.com/Subj1> <http://example.com/prop2> "2012-05-12"^^<http://www.w3.org/2001/XMLSchema#date> .
<http://example.com/Subj1> <http://example.com/prop2> "English"@en .
`

	doc, err := proc.FromRDF(triples, options)
	if err != nil {
		log.Println("Error running FromRDF:", err)
		return
	}

	printDocument("JSON-LD doc from RDF", doc)

	// Output:
	// JSON-LD doc from RDF
	// [
	//   {
	//     "@id": "http://example.com/Subj1",
	//     "@type": [
	//       "http://example.com/Type"
	//     ],
	//     "http://example.com/prop1": [
	//       {
	//         "@id": "http://example.com/Obj1"
	//       }
	//     ],
	//     "http://example.com/prop2": [
	//       {
	//         "@value": "Plain"
	//       },
	//       {
	//         "@type": "http://www.w3.org/2001/XMLSchema#date",
	//         "@value": "2012-05-12"
	//       },
	//       {
	//         "@language": "en",
	//         "@value": "English"
	//       }
	//     ]
	//   }
	// ]
}

func ExampleCachingDocumentLoader() {
	loader := ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))
	loader.AddDocument("http://example.org/context.jsonld", mustParse(`{
		"@context": {"name": "http://schema.org/name"}
	}`))

	options := ld.NewJsonLdOptions("")
	options.DocumentLoader = loader

	proc := ld.NewJsonLdProcessor()
	expanded, err := proc.Expand(mustParse(`{
		"@context": "http://example.org/context.jsonld",
		"name": "Jane Doe"
	}`), options)
	if err != nil {
		log.Println("Error when expanding JSON-LD document:", err)
		return
	}

	printDocument("expanded with a preloaded context", expanded)

	// Output:
	// expanded with a preloaded context
	// [
	//   {
	//     "http://schema.org/name": [
	//       {
	//         "@value": "Jane Doe"
	//       }
	//     ]
	//   }
	// ]
}
