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

// FramingContext stores framing state
type FramingContext struct {
	embed       Embed
	explicit    bool
	requireAll  bool
	omitDefault bool

	graphMap NodeMap
	graph    string

	// uniqueEmbeds records, per graph, the nodes embedded so far under the
	// current top-level match. Only @once consults it.
	uniqueEmbeds map[string]map[string]bool
	subjectStack []stackEntry
}

type stackEntry struct {
	id    string
	graph string
}

// NewFramingContext creates and returns as new framing context.
func NewFramingContext(opts *JsonLdOptions) *FramingContext {
	state := &FramingContext{
		embed:        EmbedAlways,
		requireAll:   true,
		uniqueEmbeds: make(map[string]map[string]bool),
	}
	if opts != nil {
		if opts.Embed != "" {
			state.embed = opts.Embed
		}
		state.explicit = opts.Explicit
		state.requireAll = opts.RequireAll
		state.omitDefault = opts.OmitDefault
	}
	return state
}

func (state *FramingContext) subjects() map[string]*Object {
	return state.graphMap[state.graph]
}

// frameFlags are the flags in effect for one level of a frame.
type frameFlags struct {
	embed      Embed
	explicit   bool
	requireAll bool
}

// implicitFrame is used for properties the frame does not mention: it
// carries the flags of the enclosing frame.
func (f frameFlags) implicitFrame() *Object {
	return NewObject().
		Set("@embed", NewArray(NewString(string(f.embed)))).
		Set("@explicit", NewArray(NewBool(f.explicit))).
		Set("@requireAll", NewArray(NewBool(f.requireAll)))
}

// Frame performs JSON-LD framing as defined in:
//
// https://www.w3.org/TR/json-ld11-framing/#framing-algorithm
//
// input is an expanded document, frame an expanded frame. Nodes from all
// graphs are merged before matching. The result is the framed, still
// expanded, list of top-level nodes.
func (api *JsonLdApi) Frame(input Value, frame Value) ([]Value, error) {
	state := NewFramingContext(api.opts)

	nodeMap := NewNodeMap()
	if err := api.GenerateNodeMap(input, nodeMap, NewIdentifierIssuer("_:b")); err != nil {
		return nil, err
	}
	nodeMap["@merged"] = MergeNodeMaps(nodeMap)
	state.graphMap = nodeMap
	state.graph = "@merged"

	framed := &frameList{}
	if err := api.frame(state, sortedNodeIDs(state.subjects()), frame, framed, "", false); err != nil {
		return nil, err
	}
	return framed.items, nil
}

// frameParent receives framed output: a node's property or a plain list.
type frameParent interface {
	addOutput(property string, output Value)
}

type frameList struct {
	items []Value
}

func (l *frameList) addOutput(_ string, output Value) {
	l.items = append(l.items, output)
}

type frameObject struct {
	obj *Object
}

func (o frameObject) addOutput(property string, output Value) {
	AddValue(o.obj, property, output, true, true)
}

func (api *JsonLdApi) frame(state *FramingContext, subjects []string, frameVal Value, parent frameParent,
	property string, embedded bool) error {

	frame, err := validateFrame(frameVal)
	if err != nil {
		return err
	}

	flags := frameFlags{
		explicit:   getFrameFlag(frame, "@explicit", state.explicit),
		requireAll: getFrameFlag(frame, "@requireAll", state.requireAll),
	}
	if flags.embed, err = getFrameEmbed(frame, state.embed); err != nil {
		return err
	}

	matches, err := api.filterSubjects(state, subjects, frame, flags)
	if err != nil {
		return err
	}

	for _, id := range matches {
		subject := state.subjects()[id]

		if property == "" {
			// each top-level match is framed independently
			state.uniqueEmbeds = map[string]map[string]bool{state.graph: {}}
		} else if state.uniqueEmbeds[state.graph] == nil {
			state.uniqueEmbeds[state.graph] = make(map[string]bool)
		}

		output := NewObject().Set("@id", NewString(id))

		if embedded && (flags.embed == EmbedNever || state.onStack(id)) {
			parent.addOutput(property, output.Value())
			continue
		}
		if embedded && flags.embed == EmbedOnce && state.uniqueEmbeds[state.graph][id] {
			parent.addOutput(property, output.Value())
			continue
		}
		state.uniqueEmbeds[state.graph][id] = true
		state.subjectStack = append(state.subjectStack, stackEntry{id: id, graph: state.graph})

		if err := api.frameNamedGraph(state, id, frame, output); err != nil {
			return err
		}

		if included, found := frame.Get("@included"); found {
			includedOut := frameObject{obj: output}
			if err := api.frame(state, subjects, included, includedOut, "@included", false); err != nil {
				return err
			}
		}

		if err := api.frameProperties(state, subject, frame, flags, output); err != nil {
			return err
		}

		api.addFrameDefaults(state, frame, output)

		if err := api.frameReverse(state, id, frame, output); err != nil {
			return err
		}

		parent.addOutput(property, output.Value())
		state.subjectStack = state.subjectStack[:len(state.subjectStack)-1]
	}
	return nil
}

func (state *FramingContext) onStack(id string) bool {
	for _, e := range state.subjectStack {
		if e.id == id && e.graph == state.graph {
			return true
		}
	}
	return false
}

// frameNamedGraph frames the graph named id, if there is one, into the
// node's @graph entry.
func (api *JsonLdApi) frameNamedGraph(state *FramingContext, id string, frame *Object, output *Object) error {
	graph, isGraph := state.graphMap[id]
	if !isGraph || id == "@merged" || id == "@default" {
		return nil
	}

	var subframe Value
	recurse := false
	if graphFrame, found := frame.Get("@graph"); found {
		subframe = NewObject().Value()
		if items := Arrayify(graphFrame); len(items) > 0 && items[0].IsObject() {
			subframe = items[0]
		}
		recurse = true
	} else {
		subframe = NewObject().Value()
		recurse = state.graph != "@merged"
	}
	if !recurse {
		return nil
	}

	previous := state.graph
	state.graph = id
	graphOut := &frameList{}
	err := api.frame(state, sortedNodeIDs(graph), subframe, graphOut, "@graph", false)
	state.graph = previous
	if err != nil {
		return err
	}
	output.Set("@graph", NewArray(graphOut.items...))
	return nil
}

func (api *JsonLdApi) frameProperties(state *FramingContext, subject *Object, frame *Object, flags frameFlags,
	output *Object) error {

	for _, prop := range subject.SortedKeys() {
		objects := subject.values[prop]
		if IsKeyword(prop) {
			if prop != "@id" {
				output.Set(prop, objects)
			}
			continue
		}

		propFrame, inFrame := frame.Get(prop)
		if flags.explicit && !inFrame {
			continue
		}
		subframe := flags.implicitFrame().Value()
		if inFrame {
			subframe = propFrame
		}

		for _, o := range Arrayify(objects) {
			switch {
			case IsList(o):
				listFrame := flags.implicitFrame().Value()
				if first := Arrayify(propFrame); inFrame && len(first) > 0 {
					if l, hasList := first[0].Get("@list"); hasList {
						listFrame = l
					}
				}
				list := &frameList{items: make([]Value, 0)}
				for _, listItem := range o.Val("@list").Items() {
					if IsSubjectReference(listItem) {
						if err := api.frame(state, []string{listItem.Val("@id").Str()}, listFrame, list, "@list",
							true); err != nil {
							return err
						}
					} else {
						list.items = append(list.items, listItem)
					}
				}
				AddValue(output, prop, NewObject().Set("@list", NewArray(list.items...)).Value(), true, true)
			case IsSubjectReference(o):
				if err := api.frame(state, []string{o.Val("@id").Str()}, subframe, frameObject{obj: output}, prop,
					true); err != nil {
					return err
				}
			default:
				var pattern *Object
				if items := Arrayify(subframe); len(items) > 0 {
					pattern = items[0].Object()
				}
				if valueMatch(pattern, o) {
					AddValue(output, prop, o, true, true)
				}
			}
		}
	}
	return nil
}

// addFrameDefaults adds @preserve placeholders for frame properties the
// output lacks.
func (api *JsonLdApi) addFrameDefaults(state *FramingContext, frame *Object, output *Object) {
	for _, prop := range frame.SortedKeys() {
		frameValues := Arrayify(frame.values[prop])
		var next *Object
		if len(frameValues) > 0 {
			next = frameValues[0].Object()
		}

		if prop == "@type" {
			def, hasDefault := next.Get("@default")
			if !hasDefault || output.Has("@type") {
				continue
			}
			output.Set("@type", NewArray(Arrayify(def)...))
			continue
		}
		if IsKeyword(prop) || output.Has(prop) {
			continue
		}

		if getFrameFlag(next, "@omitDefault", state.omitDefault) {
			continue
		}
		preserve := NewString("@null")
		if def, hasDefault := next.Get("@default"); hasDefault {
			preserve = def
		}
		output.Set(prop, NewArray(NewObject().Set("@preserve", NewArray(Arrayify(preserve)...)).Value()))
	}
}

// frameReverse embeds the nodes pointing at id through the reverse
// properties named in the frame's @reverse entry.
func (api *JsonLdApi) frameReverse(state *FramingContext, id string, frame *Object, output *Object) error {
	reverseFrame := frame.Val("@reverse").Object()
	if reverseFrame == nil {
		return nil
	}

	reverseOut := NewObject()
	for _, reverseProp := range reverseFrame.SortedKeys() {
		subframe := reverseFrame.values[reverseProp]
		subjects := state.subjects()
		for _, subjectID := range sortedNodeIDs(subjects) {
			pointsAtID := false
			for _, v := range Arrayify(subjects[subjectID].Val(reverseProp)) {
				if v.Val("@id").Str() == id {
					pointsAtID = true
					break
				}
			}
			if !pointsAtID {
				continue
			}
			found := &frameList{}
			if err := api.frame(state, []string{subjectID}, subframe, found, reverseProp, true); err != nil {
				return err
			}
			AddValue(reverseOut, reverseProp, NewArray(found.items...), true, true)
		}
	}
	if reverseOut.Len() > 0 {
		output.Set("@reverse", reverseOut.Value())
	}
	return nil
}

// validateFrame checks the shape of a frame and returns its first object.
func validateFrame(frame Value) (*Object, error) {
	if frame.IsArray() {
		if len(frame.arr) != 1 {
			return nil, NewJsonLdError(InvalidFrame, "a frame must be a single object")
		}
		frame = frame.arr[0]
	}
	obj, isObject := frame.AsObject()
	if !isObject {
		return nil, NewJsonLdError(InvalidFrame, "a frame must be an object")
	}

	for _, id := range Arrayify(obj.Val("@id")) {
		if isEmptyObject(id) {
			continue
		}
		s, isString := id.AsString()
		if !isString || !(IsAbsoluteIri(s) || IsBlankNodeID(s)) {
			return nil, NewJsonLdError(InvalidFrame, fmt.Sprintf("invalid @id in frame: %v", id))
		}
	}
	for _, t := range Arrayify(obj.Val("@type")) {
		if isEmptyObject(t) || t.Has("@default") {
			continue
		}
		s, isString := t.AsString()
		if !isString || !(IsAbsoluteIri(s) || IsBlankNodeID(s)) {
			return nil, NewJsonLdError(InvalidFrame, fmt.Sprintf("invalid @type in frame: %v", t))
		}
	}
	return obj, nil
}

// getFrameValue returns the first value of a frame keyword, unwrapping the
// value object that frame expansion produces.
func getFrameValue(frame *Object, name string) (Value, bool) {
	value, found := frame.Get(name)
	if !found {
		return Null, false
	}
	if items := Arrayify(value); len(items) > 0 {
		value = items[0]
	}
	if v, isValue := value.Get("@value"); isValue {
		value = v
	}
	return value, true
}

// getFrameFlag gets the frame flag value for the given flag name.
// If boolean value is not found, returns theDefault
func getFrameFlag(frame *Object, name string, theDefault bool) bool {
	value, found := getFrameValue(frame, name)
	if !found {
		return theDefault
	}
	if b, isBool := value.AsBool(); isBool {
		return b
	}
	return theDefault
}

// getFrameEmbed reads the @embed flag. The JSON-LD 1.0 spellings are
// accepted: true and @last mean @once, false means @never.
func getFrameEmbed(frame *Object, theDefault Embed) (Embed, error) {
	value, found := getFrameValue(frame, "@embed")
	if !found {
		return normalizeEmbed(theDefault)
	}
	if b, isBool := value.AsBool(); isBool {
		if b {
			return EmbedOnce, nil
		}
		return EmbedNever, nil
	}
	s, isString := value.AsString()
	if !isString {
		return "", NewJsonLdError(InvalidEmbedValue, value)
	}
	return normalizeEmbed(Embed(s))
}

func normalizeEmbed(embed Embed) (Embed, error) {
	switch embed {
	case EmbedAlways, EmbedNever, EmbedOnce:
		return embed, nil
	case EmbedLast:
		return EmbedOnce, nil
	}
	return "", NewJsonLdError(InvalidEmbedValue, string(embed))
}

// filterSubjects returns the ids of the subjects that match frame, sorted.
func (api *JsonLdApi) filterSubjects(state *FramingContext, subjects []string, frame *Object,
	flags frameFlags) ([]string, error) {

	matches := make([]string, 0, len(subjects))
	for _, id := range subjects {
		node, found := state.subjects()[id]
		if !found {
			continue
		}
		matched, err := api.filterSubject(state, node, frame, flags.requireAll)
		if err != nil {
			return nil, err
		}
		if matched {
			matches = append(matches, id)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// filterSubject reports whether node matches frame. With requireAll every
// property of the frame must match, otherwise any one is enough.
// See https://www.w3.org/TR/json-ld11-framing/#frame-matching
func (api *JsonLdApi) filterSubject(state *FramingContext, node *Object, frame *Object,
	requireAll bool) (bool, error) {

	wildcard := true
	matchesSome := false

	for _, key := range frame.SortedKeys() {
		frameValues := Arrayify(frame.values[key])
		nodeValues := Arrayify(node.Val(key))
		matchThis := false

		switch {
		case key == "@id":
			if len(frameValues) == 0 || isEmptyObject(frameValues[0]) {
				matchThis = true
			} else {
				for _, fv := range frameValues {
					if len(nodeValues) > 0 && fv.Equal(nodeValues[0]) {
						matchThis = true
					}
				}
			}
			if !requireAll {
				return matchThis, nil
			}

		case key == "@type":
			wildcard = false
			switch {
			case len(frameValues) == 0:
				if len(nodeValues) > 0 {
					return false, nil
				}
				matchThis = true
			case len(frameValues) == 1 && isEmptyObject(frameValues[0]):
				matchThis = len(nodeValues) > 0
			default:
				for _, ft := range frameValues {
					if ft.Has("@default") {
						matchThis = true
						continue
					}
					for _, nt := range nodeValues {
						if nt.Equal(ft) {
							matchThis = true
						}
					}
				}
				if !requireAll {
					return matchThis, nil
				}
			}

		case IsKeyword(key):
			continue

		default:
			wildcard = false
			var thisFrame Value
			hasDefault := false
			if len(frameValues) > 0 {
				thisFrame = frameValues[0]
				if thisFrame.IsObject() && !IsValue(thisFrame) && !IsList(thisFrame) {
					if _, err := validateFrame(thisFrame); err != nil {
						return false, err
					}
				}
				hasDefault = thisFrame.Has("@default")
			}

			if len(nodeValues) == 0 && hasDefault {
				continue
			}
			if len(nodeValues) > 0 && len(frameValues) == 0 {
				return false, nil
			}

			switch {
			case len(frameValues) == 0:
				matchThis = true
			case IsList(thisFrame):
				listPattern := thisFrame.Val("@list").Items()
				if len(nodeValues) > 0 && IsList(nodeValues[0]) && len(listPattern) > 0 {
					pattern := listPattern[0]
					for _, lv := range nodeValues[0].Val("@list").Items() {
						if IsValue(pattern) && valueMatch(pattern.Object(), lv) {
							matchThis = true
						} else if !IsValue(pattern) && api.nodeMatch(state, pattern.Object(), lv, requireAll) {
							matchThis = true
						}
					}
				} else if len(nodeValues) > 0 && IsList(nodeValues[0]) {
					matchThis = true
				}
			case IsValue(thisFrame):
				for _, nv := range nodeValues {
					if valueMatch(thisFrame.Object(), nv) {
						matchThis = true
					}
				}
			case IsSubjectReference(thisFrame):
				for _, nv := range nodeValues {
					if api.nodeMatch(state, thisFrame.Object(), nv, requireAll) {
						matchThis = true
					}
				}
			case thisFrame.IsObject():
				matchThis = len(nodeValues) > 0
			}
		}

		if !matchThis && requireAll {
			return false, nil
		}
		matchesSome = matchesSome || matchThis
	}
	return wildcard || matchesSome, nil
}

// nodeMatch matches the node referenced by value against pattern.
func (api *JsonLdApi) nodeMatch(state *FramingContext, pattern *Object, value Value, requireAll bool) bool {
	id, hasID := value.Get("@id")
	if !hasID {
		return false
	}
	node, found := state.subjects()[id.Str()]
	if !found {
		return false
	}
	matched, err := api.filterSubject(state, node, pattern, requireAll)
	return err == nil && matched
}

// valueMatch reports whether value object v matches a value pattern. An
// empty pattern matches anything; {} in a pattern entry is a wildcard.
func valueMatch(pattern *Object, v Value) bool {
	values := Arrayify(pattern.Val("@value"))
	types := Arrayify(pattern.Val("@type"))
	languages := Arrayify(pattern.Val("@language"))
	if len(values) == 0 && len(types) == 0 && len(languages) == 0 {
		return true
	}

	matchesEntry := func(patterns []Value, key string) bool {
		actual, present := v.Get(key)
		if !present {
			return len(patterns) == 0
		}
		if len(patterns) > 0 && isEmptyObject(patterns[0]) {
			return true
		}
		for _, p := range patterns {
			if p.Equal(actual) {
				return true
			}
		}
		return false
	}

	valuePresent := v.Has("@value")
	if !(valuePresent && (len(values) > 0 && isEmptyObject(values[0]) || containsValue(values, v.Val("@value")))) {
		return false
	}
	return matchesEntry(types, "@type") && matchesEntry(languages, "@language")
}

func containsValue(values []Value, v Value) bool {
	for _, item := range values {
		if item.Equal(v) {
			return true
		}
	}
	return false
}

// RemovePreserve removes the @preserve placeholders left by framing from
// compacted output and turns "@null" placeholders into nulls. Single item
// arrays are collapsed again where compactArrays asks for it.
func RemovePreserve(ctx *Context, input Value, compactArrays bool) Value {
	switch input.Kind() {
	case ArrayKind:
		output := make([]Value, 0, len(input.arr))
		for _, item := range input.arr {
			if res := RemovePreserve(ctx, item, compactArrays); !res.IsNull() {
				output = append(output, res)
			}
		}
		return NewArray(output...)
	case StringKind:
		if input.s == "@null" {
			return Null
		}
		return input
	case ObjectKind:
	default:
		return input
	}

	obj := input.obj
	if preserve, found := obj.Get("@preserve"); found {
		return RemovePreserve(ctx, preserve, compactArrays)
	}
	if obj.Has("@value") {
		return input
	}

	graphAlias := ctx.CompactIri("@graph", Null, true, false)
	res := NewObject()
	for _, prop := range obj.keys {
		value := RemovePreserve(ctx, obj.values[prop], compactArrays)
		td := ctx.terms[prop]
		if compactArrays && value.IsArray() && len(value.arr) == 1 && prop != graphAlias &&
			!td.HasContainer("@set") && !td.HasContainer("@list") && prop != "@list" {
			value = value.arr[0]
		}
		res.Set(prop, value)
	}
	return res.Value()
}
