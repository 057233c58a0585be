package taxonomy

import "fmt"

// Topic kategori level-2, id scoped ke pillar (contoh "P3.07")
type Topic struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pillar kategori level-1
type Pillar struct {
	ID            string  `json:"id"`
	NamePrimary   string  `json:"name_primary"`
	NameSecondary string  `json:"name_secondary"`
	Topics        []Topic `json:"topics"`
}

// Taxonomy immutable setelah load; read-only selama runtime
type Taxonomy struct {
	version string
	pillars []Pillar
	byID    map[string]int
}

func New(version string, pillars []Pillar) *Taxonomy {
	t := &Taxonomy{version: version, pillars: pillars, byID: make(map[string]int, len(pillars))}
	for i, p := range pillars {
		t.byID[p.ID] = i
	}
	return t
}

func (t *Taxonomy) Version() string { return t.version }

// Pillars returns the full hierarchy in stable order.
func (t *Taxonomy) Pillars() []Pillar { return t.pillars }

func (t *Taxonomy) FindPillar(id string) (Pillar, error) {
	i, ok := t.byID[id]
	if !ok {
		return Pillar{}, fmt.Errorf("pillar %q: %w", id, ErrNotFound)
	}
	return t.pillars[i], nil
}

func (t *Taxonomy) FindTopic(pillarID, topicID string) (Topic, error) {
	p, err := t.FindPillar(pillarID)
	if err != nil {
		return Topic{}, err
	}
	for _, tp := range p.Topics {
		if tp.ID == topicID {
			return tp, nil
		}
	}
	return Topic{}, fmt.Errorf("topic %q in pillar %q: %w", topicID, pillarID, ErrNotFound)
}

// ResolveOrDefault validates a pillar/topic pair coming from untrusted model
// output. Invalid input falls back to the first pillar and its first topic so
// an item can never persist a dangling taxonomy reference.
func (t *Taxonomy) ResolveOrDefault(pillarID, topicID string) (Pillar, Topic) {
	p, err := t.FindPillar(pillarID)
	if err != nil {
		p = t.pillars[0]
		return p, p.Topics[0]
	}
	tp, err := t.FindTopic(pillarID, topicID)
	if err != nil {
		return p, p.Topics[0]
	}
	return p, tp
}
