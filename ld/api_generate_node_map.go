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
	"sort"
)

// NodeMap holds the nodes of a flattened document: graph name -> node id ->
// node object. The default graph is stored under "@default". Nodes refer to
// each other by {"@id": ...} references only.
type NodeMap map[string]map[string]*Object

// NewNodeMap creates a node map holding an empty default graph.
func NewNodeMap() NodeMap {
	return NodeMap{"@default": make(map[string]*Object)}
}

// graph returns the nodes of the named graph, creating it if needed.
func (nm NodeMap) graph(name string) map[string]*Object {
	g, found := nm[name]
	if !found {
		g = make(map[string]*Object)
		nm[name] = g
	}
	return g
}

// GraphNames returns the names of all graphs, sorted. The default graph
// comes first.
func (nm NodeMap) GraphNames() []string {
	names := make([]string, 0, len(nm))
	for name := range nm {
		if name != "@default" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, found := nm["@default"]; found {
		names = append([]string{"@default"}, names...)
	}
	return names
}

// sortedNodeIDs returns the ids of graph's nodes in lexicographical order.
func sortedNodeIDs(graph map[string]*Object) []string {
	ids := make([]string, 0, len(graph))
	for id := range graph {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// nodeMapBuilder carries the state of one node map generation.
type nodeMapBuilder struct {
	nodeMap NodeMap
	issuer  *IdentifierIssuer
}

// GenerateNodeMap flattens an expanded document into nodeMap, labelling
// blank nodes with issuer.
// See https://www.w3.org/TR/json-ld11-api/#node-map-generation
func (api *JsonLdApi) GenerateNodeMap(element Value, nodeMap NodeMap, issuer *IdentifierIssuer) error {
	b := &nodeMapBuilder{nodeMap: nodeMap, issuer: issuer}
	_, err := b.generate(element, "@default", "", Null, "", nil)
	return err
}

// generate adds element to the node map. activeSubject is the id of the node
// element belongs to; for reverse properties reverseSubject holds a reference
// to the node instead. When list is non-nil, values and references are
// collected into it rather than added to the active subject.
func (b *nodeMapBuilder) generate(element Value, graphName, activeSubject string, reverseSubject Value,
	activeProperty string, list []Value) ([]Value, error) {

	if element.IsArray() {
		var err error
		for _, item := range element.arr {
			if list, err = b.generate(item, graphName, activeSubject, reverseSubject, activeProperty, list); err != nil {
				return nil, err
			}
		}
		return list, nil
	}

	elem := element.Object()
	if elem == nil {
		return list, nil
	}
	graph := b.nodeMap.graph(graphName)

	if types, hasType := elem.Get("@type"); hasType {
		relabelled := make([]Value, 0, len(Arrayify(types)))
		for _, t := range Arrayify(types) {
			if s, isString := t.AsString(); isString && IsBlankNodeID(s) {
				t = NewString(b.issuer.GetId(s))
			}
			relabelled = append(relabelled, t)
		}
		elem = elem.Clone()
		if types.IsArray() {
			elem.Set("@type", NewArray(relabelled...))
		} else {
			elem.Set("@type", relabelled[0])
		}
		element = elem.Value()
	}

	switch {
	case IsValue(element):
		if list != nil {
			return append(list, element), nil
		}
		if subject := graph[activeSubject]; subject != nil {
			AddValue(subject, activeProperty, element, true, false)
		}
		return list, nil

	case IsList(element):
		collected, err := b.generate(elem.Val("@list"), graphName, activeSubject, reverseSubject, activeProperty,
			make([]Value, 0))
		if err != nil {
			return nil, err
		}
		listObj := NewObject().Set("@list", NewArray(collected...)).Value()
		if list != nil {
			return append(list, listObj), nil
		}
		if subject := graph[activeSubject]; subject != nil {
			AddValue(subject, activeProperty, listObj, true, true)
		}
		return list, nil
	}

	id := ""
	if idVal, hasID := elem.Get("@id"); hasID {
		id = idVal.Str()
		if IsBlankNodeID(id) {
			id = b.issuer.GetId(id)
		}
	} else {
		id = b.issuer.GetId("")
	}

	node, found := graph[id]
	if !found {
		node = NewObject().Set("@id", NewString(id))
		graph[id] = node
	}
	reference := NewObject().Set("@id", NewString(id)).Value()

	switch {
	case !reverseSubject.IsNull():
		AddValue(node, activeProperty, reverseSubject, true, false)
	case activeProperty != "":
		if list != nil {
			list = append(list, reference)
		} else {
			AddValue(graph[activeSubject], activeProperty, reference, true, false)
		}
	}

	if types, hasType := elem.Get("@type"); hasType {
		AddValue(node, "@type", types, true, false)
	}

	if index, hasIndex := elem.Get("@index"); hasIndex {
		if existing, found := node.Get("@index"); found && !existing.Equal(index) {
			return nil, NewJsonLdError(ConflictingIndexes, "conflicting @index property detected")
		}
		node.Set("@index", index)
	}

	if reverseMap, hasReverse := elem.Get("@reverse"); hasReverse {
		for _, property := range reverseMap.Object().SortedKeys() {
			for _, item := range Arrayify(reverseMap.obj.values[property]) {
				if _, err := b.generate(item, graphName, "", reference, property, nil); err != nil {
					return nil, err
				}
			}
		}
	}

	if g, hasGraph := elem.Get("@graph"); hasGraph {
		b.nodeMap.graph(id)
		if _, err := b.generate(g, id, "", Null, "", nil); err != nil {
			return nil, err
		}
	}

	if included, hasIncluded := elem.Get("@included"); hasIncluded {
		if _, err := b.generate(included, graphName, "", Null, "", nil); err != nil {
			return nil, err
		}
	}

	for _, property := range elem.SortedKeys() {
		switch property {
		case "@id", "@type", "@index", "@reverse", "@graph", "@included":
			continue
		}
		value := elem.values[property]
		if IsKeyword(property) {
			node.Set(property, value)
			continue
		}
		if IsBlankNodeID(property) {
			property = b.issuer.GetId(property)
		}
		if !node.Has(property) {
			node.Set(property, NewArray())
		}
		if _, err := b.generate(value, graphName, id, Null, property, nil); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// MergeNodeMaps merges all graphs of nodeMap into a single graph.
// See https://www.w3.org/TR/json-ld11-api/#merge-node-maps
func MergeNodeMaps(nodeMap NodeMap) map[string]*Object {
	merged := make(map[string]*Object)
	for _, graphName := range nodeMap.GraphNames() {
		graph := nodeMap[graphName]
		for _, id := range sortedNodeIDs(graph) {
			node := graph[id]
			mergedNode, found := merged[id]
			if !found {
				mergedNode = NewObject().Set("@id", NewString(id))
				merged[id] = mergedNode
			}
			for _, property := range node.keys {
				value := node.values[property]
				switch {
				case property == "@type":
					AddValue(mergedNode, property, value, true, false)
				case IsKeyword(property):
					mergedNode.Set(property, value)
				default:
					AddValue(mergedNode, property, value, true, false)
				}
			}
		}
	}
	return merged
}

// isNodeReferenceOnly reports whether a node map entry carries nothing but
// its @id.
func isNodeReferenceOnly(node *Object) bool {
	return node.Len() == 1 && node.Has("@id")
}

// Flatten flattens an expanded document: named graphs are attached to their
// graph nodes in the default graph and nodes are ordered by id.
// See https://www.w3.org/TR/json-ld11-api/#flattening-algorithm
func (api *JsonLdApi) Flatten(expanded Value) (Value, error) {
	nodeMap := NewNodeMap()
	if err := api.GenerateNodeMap(expanded, nodeMap, NewIdentifierIssuer("_:b")); err != nil {
		return Null, err
	}

	defaultGraph := nodeMap["@default"]
	for _, graphName := range nodeMap.GraphNames() {
		if graphName == "@default" {
			continue
		}
		entry, found := defaultGraph[graphName]
		if !found {
			entry = NewObject().Set("@id", NewString(graphName))
			defaultGraph[graphName] = entry
		}
		entry.Set("@graph", graphNodes(nodeMap[graphName]))
	}
	return graphNodes(defaultGraph), nil
}

// graphNodes lists the nodes of graph in id order, leaving out nodes that
// are only referenced.
func graphNodes(graph map[string]*Object) Value {
	nodes := make([]Value, 0, len(graph))
	for _, id := range sortedNodeIDs(graph) {
		if node := graph[id]; !isNodeReferenceOnly(node) {
			nodes = append(nodes, node.Value())
		}
	}
	return NewArray(nodes...)
}
