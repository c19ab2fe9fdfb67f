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

package ld

// ToRDF adds RDF triples for each graph in the node map of an expanded
// document to a new RDF dataset. Blank node labels are issued per call.
func (api *JsonLdApi) ToRDF(expanded Value) (*RDFDataset, error) {
	issuer := NewIdentifierIssuer("_:b")

	nodeMap := NewNodeMap()
	if err := api.GenerateNodeMap(expanded, nodeMap, issuer); err != nil {
		return nil, err
	}

	dataset := NewRDFDataset()
	for _, graphName := range nodeMap.GraphNames() {
		if graphName != "@default" && IsRelativeIri(graphName) {
			api.logger.Debug("skipping graph with relative IRI", "graph", graphName)
			continue
		}
		if err := api.graphToRDF(dataset, graphName, nodeMap[graphName], issuer); err != nil {
			return nil, err
		}
	}

	return dataset, nil
}
