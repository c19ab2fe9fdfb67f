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

import (
	"fmt"
	"sort"
)

// UsagesNode records where a node is referenced: the referencing node, the
// property and the position of the reference in that property's values.
type UsagesNode struct {
	node     *NodeMapNode
	property string
	index    int
}

// NodeMapNode is a node under construction during RDF deserialization.
type NodeMapNode struct {
	Values *Object
	usages []UsagesNode
}

// NewNodeMapNode creates a new instance of NodeMapNode.
func NewNodeMapNode(id string) *NodeMapNode {
	return &NodeMapNode{
		Values: NewObject().Set("@id", NewString(id)),
	}
}

func (nmn *NodeMapNode) id() string {
	return nmn.Values.Val("@id").Str()
}

// merge adds value to property unless present and returns its position.
func (nmn *NodeMapNode) merge(property string, value Value) int {
	MergeValue(nmn.Values, property, value)
	items := nmn.Values.Val(property).Items()
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Equal(value) {
			return i
		}
	}
	return len(items) - 1
}

// replace swaps the value at position index of property.
func (nmn *NodeMapNode) replace(property string, index int, value Value) {
	items := append([]Value(nil), nmn.Values.Val(property).Items()...)
	items[index] = value
	nmn.Values.Set(property, NewArray(items...))
}

// IsWellFormedListNode reports whether the node is a blank list cell: one
// rdf:first, one rdf:rest and at most an rdf:List type.
func (nmn *NodeMapNode) IsWellFormedListNode() bool {
	if !IsBlankNodeID(nmn.id()) {
		return false
	}
	keys := 1
	for _, p := range []string{RDFFirst, RDFRest} {
		v, found := nmn.Values.Get(p)
		if !found || len(v.Items()) != 1 {
			return false
		}
		keys++
	}
	if t, found := nmn.Values.Get("@type"); found {
		items := t.Items()
		if len(items) != 1 || items[0].Str() != RDFList {
			return false
		}
		keys++
	}
	return keys == nmn.Values.Len()
}

// FromRDF converts RDF statements into JSON-LD.
// Returns a list of expanded JSON-LD node objects found in the given dataset.
// See https://www.w3.org/TR/json-ld11-api/#serialize-rdf-as-json-ld-algorithm
func (api *JsonLdApi) FromRDF(dataset *RDFDataset) (Value, error) {
	defaultGraph := make(map[string]*NodeMapNode)
	graphMap := map[string]map[string]*NodeMapNode{"@default": defaultGraph}

	// nil marks a node referenced more than once
	referencedOnce := make(map[string]*UsagesNode)

	for _, name := range dataset.GraphNames() {
		nodeMap, present := graphMap[name]
		if !present {
			nodeMap = make(map[string]*NodeMapNode)
			graphMap[name] = nodeMap
		}
		if _, present := defaultGraph[name]; name != "@default" && !present {
			defaultGraph[name] = NewNodeMapNode(name)
		}

		for _, triple := range dataset.Graphs[name] {
			if triple.Subject == nil || triple.Predicate == nil || triple.Object == nil || IsLiteral(triple.Subject) {
				return Null, NewJsonLdError(InvalidQuad, fmt.Sprintf("malformed quad in graph %s", name))
			}
			subject := triple.Subject.GetValue()
			predicate := triple.Predicate.GetValue()
			object := triple.Object
			objectIsNode := IsIRI(object) || IsBlankNode(object)

			node, present := nodeMap[subject]
			if !present {
				node = NewNodeMapNode(subject)
				nodeMap[subject] = node
			}

			if _, present := nodeMap[object.GetValue()]; objectIsNode && !present {
				nodeMap[object.GetValue()] = NewNodeMapNode(object.GetValue())
			}

			if predicate == RDFType && objectIsNode && !api.opts.UseRdfType {
				MergeValue(node.Values, "@type", NewString(object.GetValue()))
				continue
			}

			value, err := RdfToObject(object, api.opts.UseNativeTypes)
			if err != nil {
				return Null, err
			}
			index := node.merge(predicate, value)

			if !objectIsNode {
				continue
			}
			usage := UsagesNode{node: node, property: predicate, index: index}
			switch {
			case object.GetValue() == RDFNil:
				// rdf:nil is tracked per graph
				nilNode := nodeMap[RDFNil]
				nilNode.usages = append(nilNode.usages, usage)
			default:
				if _, seen := referencedOnce[object.GetValue()]; seen {
					referencedOnce[object.GetValue()] = nil
				} else {
					referencedOnce[object.GetValue()] = &usage
				}
			}
		}
	}

	for _, name := range sortedGraphNames(graphMap) {
		graph := graphMap[name]
		nilNode, present := graph[RDFNil]
		if !present {
			continue
		}
		for _, usage := range nilNode.usages {
			node := usage.node
			property := usage.property
			head := usage
			list := make([]Value, 0)
			listNodes := make([]string, 0)

			for property == RDFRest && referencedOnce[node.id()] != nil && node.IsWellFormedListNode() {
				list = append(list, node.Values.Val(RDFFirst).Items()[0])
				listNodes = append(listNodes, node.id())

				next := referencedOnce[node.id()]
				node = next.node
				property = next.property
				head = *next
			}

			// reverse the list
			for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
				list[i], list[j] = list[j], list[i]
			}
			head.node.replace(head.property, head.index, NewObject().Set("@list", NewArray(list...)).Value())
			for _, nodeID := range listNodes {
				delete(graph, nodeID)
			}
		}
	}

	result := make([]Value, 0)
	for _, subject := range sortedNodeIDsOf(defaultGraph) {
		node := defaultGraph[subject]
		if subjectMap, isGraph := graphMap[subject]; isGraph && subject != "@default" {
			graph := make([]Value, 0)
			for _, s := range sortedNodeIDsOf(subjectMap) {
				n := subjectMap[s]
				if isNodeReferenceOnly(n.Values) {
					continue
				}
				graph = append(graph, n.Values.Value())
			}
			node.Values.Set("@graph", NewArray(graph...))
		}
		if isNodeReferenceOnly(node.Values) {
			continue
		}
		result = append(result, node.Values.Value())
	}

	return NewArray(result...), nil
}

func sortedNodeIDsOf(graph map[string]*NodeMapNode) []string {
	ids := make([]string, 0, len(graph))
	for id := range graph {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedGraphNames(graphMap map[string]map[string]*NodeMapNode) []string {
	names := make([]string, 0, len(graphMap))
	for name := range graphMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
