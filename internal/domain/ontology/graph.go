package ontology

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"skill-match/internal/domain/profile"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/traverse"
)

const DefaultNeighborDepth = 2

type nodeKey struct {
	kind NodeKind
	name string
}

type nodeID int64

func (n nodeID) ID() int64 { return int64(n) }

type relLine struct {
	from, to nodeID
	uid      int64
	rel      Relation
}

func (l relLine) From() graph.Node         { return l.from }
func (l relLine) To() graph.Node           { return l.to }
func (l relLine) ID() int64                { return l.uid }
func (l relLine) ReversedLine() graph.Line { return relLine{from: l.to, to: l.from, uid: l.uid, rel: l.rel} }

type Graph struct {
	def     Definition
	nodes   []Node
	index   map[nodeKey]int64
	g       *multi.DirectedGraph
	edges   []Edge
	version string
}

func Build(def Definition) *Graph {
	def = normalizeDefinition(def)
	gr := &Graph{
		def:   def,
		index: make(map[nodeKey]int64),
		g:     multi.NewDirectedGraph(),
	}

	skillNames := sortedKeys(def.Skills)
	jobNames := sortedKeys(def.Jobs)

	for _, name := range skillNames {
		sd := def.Skills[name]
		gr.addNode(Node{
			Name:     name,
			Kind:     KindSkill,
			Category: sd.Category,
			Level:    sd.Level,
			Related:  sd.Related,
		})
	}
	for _, name := range jobNames {
		jd := def.Jobs[name]
		gr.addNode(Node{
			Name:            name,
			Kind:            KindJob,
			Required:        jd.Required,
			Preferred:       jd.Preferred,
			ExperienceLevel: jd.ExperienceLevel,
		})
	}

	seen := make(map[[3]int64]struct{})
	var uid int64
	link := func(from, to int64, rel Relation) {
		if from == to {
			return
		}
		k := [3]int64{from, to, int64(rel)}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		gr.g.SetLine(relLine{from: nodeID(from), to: nodeID(to), uid: uid, rel: rel})
		uid++
		gr.edges = append(gr.edges, Edge{From: gr.nodes[from].Name, To: gr.nodes[to].Name, Relation: rel})
	}

	for _, name := range skillNames {
		sid := gr.index[nodeKey{KindSkill, name}]
		sd := def.Skills[name]
		for _, r := range sd.Related {
			if tid, ok := gr.index[nodeKey{KindSkill, r}]; ok {
				link(sid, tid, RelRelated)
			}
		}
		if sd.Category != "" {
			cid, ok := gr.index[nodeKey{KindCategory, sd.Category}]
			if !ok {
				cid = gr.addNode(Node{Name: sd.Category, Kind: KindCategory})
			}
			link(sid, cid, RelBelongsTo)
		}
	}
	for _, name := range jobNames {
		jid := gr.index[nodeKey{KindJob, name}]
		jd := def.Jobs[name]
		for _, s := range jd.Required {
			if tid, ok := gr.index[nodeKey{KindSkill, s}]; ok {
				link(jid, tid, RelRequires)
			}
		}
		for _, s := range jd.Preferred {
			if tid, ok := gr.index[nodeKey{KindSkill, s}]; ok {
				link(jid, tid, RelPrefers)
			}
		}
	}

	gr.version = fingerprint(def)
	return gr
}

func (gr *Graph) addNode(n Node) int64 {
	id := int64(len(gr.nodes))
	n.ID = id
	gr.nodes = append(gr.nodes, n)
	gr.index[nodeKey{n.Kind, n.Name}] = id
	gr.g.AddNode(nodeID(id))
	return id
}

func (gr *Graph) resolve(name string) (int64, bool) {
	name = profile.NormalizeSkill(name)
	if id, ok := gr.index[nodeKey{KindSkill, name}]; ok {
		return id, true
	}
	if id, ok := gr.index[nodeKey{KindJob, name}]; ok {
		return id, true
	}
	return 0, false
}

func (gr *Graph) Lookup(name string) (Node, error) {
	id, ok := gr.resolve(name)
	if !ok {
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return gr.nodes[id], nil
}

func (gr *Graph) PathLength(a, b string) (int, error) {
	from, ok := gr.resolve(a)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, a)
	}
	to, ok := gr.resolve(b)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, b)
	}

	depth := -1
	var bf traverse.BreadthFirst
	bf.Walk(gr.g, nodeID(from), func(n graph.Node, d int) bool {
		if n.ID() == to {
			depth = d
			return true
		}
		return false
	})
	if depth < 0 {
		return 0, ErrNoPath
	}
	return depth, nil
}

// Similarity is 1 for identical names, 1/(1+hops) along the shortest directed
// path, and 0 when either node is unknown or unreachable.
func (gr *Graph) Similarity(a, b string) float64 {
	a, b = profile.NormalizeSkill(a), profile.NormalizeSkill(b)
	if a == b && a != "" {
		return 1.0
	}
	d, err := gr.PathLength(a, b)
	if err != nil {
		return 0
	}
	return 1.0 / (1.0 + float64(d))
}

// Neighbors lists skills reachable from skill within maxDepth directed hops,
// ordered by distance then name. The source itself, job nodes and category
// nodes are never returned. Unknown sources yield nil.
func (gr *Graph) Neighbors(skill string, maxDepth int) []string {
	from, ok := gr.resolve(skill)
	if !ok || maxDepth <= 0 {
		return nil
	}

	type hit struct {
		name  string
		depth int
	}
	var hits []hit
	var bf traverse.BreadthFirst
	bf.Walk(gr.g, nodeID(from), func(n graph.Node, d int) bool {
		if d > maxDepth {
			return true
		}
		if d == 0 {
			return false
		}
		if node := gr.nodes[n.ID()]; node.Kind == KindSkill {
			hits = append(hits, hit{name: node.Name, depth: d})
		}
		return false
	})

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].depth != hits[j].depth {
			return hits[i].depth < hits[j].depth
		}
		return hits[i].name < hits[j].name
	})
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}
	return out
}

func (gr *Graph) EdgesFrom(name string) []Edge {
	name = profile.NormalizeSkill(name)
	var out []Edge
	for _, e := range gr.edges {
		if e.From == name {
			out = append(out, e)
		}
	}
	return out
}

func (gr *Graph) Stats() Stats {
	st := Stats{TotalRelationships: len(gr.edges), Version: gr.version}
	for _, n := range gr.nodes {
		switch n.Kind {
		case KindSkill:
			st.TotalSkills++
		case KindJob:
			st.TotalJobs++
		case KindCategory:
			st.TotalCategories++
			st.Categories = append(st.Categories, n.Name)
		}
	}
	sort.Strings(st.Categories)
	return st
}

func (gr *Graph) Version() string {
	return gr.version
}

func (gr *Graph) Definition() Definition {
	return cloneDefinition(gr.def)
}

func normalizeDefinition(def Definition) Definition {
	out := Definition{
		Skills: make(map[string]SkillDef, len(def.Skills)),
		Jobs:   make(map[string]JobDef, len(def.Jobs)),
	}
	for name, sd := range def.Skills {
		name = profile.NormalizeSkill(name)
		if name == "" {
			continue
		}
		sd.Category = profile.NormalizeSkill(sd.Category)
		sd.Level = Level(strings.ToLower(strings.TrimSpace(string(sd.Level))))
		if sd.Level == "" {
			sd.Level = LevelBeginner
		}
		sd.Related = profile.NormalizeSkills(sd.Related)
		out.Skills[name] = sd
	}
	for name, jd := range def.Jobs {
		name = profile.NormalizeSkill(name)
		if name == "" {
			continue
		}
		jd.Required = profile.NormalizeSkills(jd.Required)
		jd.Preferred = profile.NormalizeSkills(jd.Preferred)
		jd.RelatedRoles = profile.NormalizeSkills(jd.RelatedRoles)
		jd.ExperienceLevel = strings.ToLower(strings.TrimSpace(jd.ExperienceLevel))
		out.Jobs[name] = jd
	}
	return out
}

func cloneDefinition(def Definition) Definition {
	out := Definition{
		Skills: make(map[string]SkillDef, len(def.Skills)),
		Jobs:   make(map[string]JobDef, len(def.Jobs)),
	}
	for k, v := range def.Skills {
		v.Related = append([]string(nil), v.Related...)
		out.Skills[k] = v
	}
	for k, v := range def.Jobs {
		v.Required = append([]string(nil), v.Required...)
		v.Preferred = append([]string(nil), v.Preferred...)
		v.RelatedRoles = append([]string(nil), v.RelatedRoles...)
		out.Jobs[k] = v
	}
	return out
}

func fingerprint(def Definition) string {
	b, _ := json.Marshal(def)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
