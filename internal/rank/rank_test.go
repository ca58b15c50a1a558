package rank

import "testing"

type scored struct {
	name string
	pop  float64
	tag  string
}

func TestComparators(t *testing.T) {
	t.Run("Descending orders highest first", func(t *testing.T) {
		items := []scored{{name: "a", pop: 10}, {name: "b", pop: 30}, {name: "c", pop: 20}}
		Sort(items, Descending(func(s scored) float64 { return s.pop }))

		want := []string{"b", "c", "a"}
		for i, w := range want {
			if items[i].name != w {
				t.Errorf("position %d: got %s, want %s", i, items[i].name, w)
			}
		}
	})

	t.Run("Combine falls through only on ties", func(t *testing.T) {
		first := Descending(func(s scored) float64 { return s.pop })
		second := Lexical(func(s scored) string { return s.name })
		combined := Combine(first, second)

		a := scored{name: "x", pop: 5}
		b := scored{name: "y", pop: 9}
		if got := combined(a, b); got != first(a, b) {
			t.Errorf("combined disagrees with first comparator on non-tie: got %d", got)
		}

		tied := scored{name: "a", pop: 5}
		if got := combined(a, tied); got != second(a, tied) {
			t.Errorf("combined did not fall through on tie: got %d", got)
		}
	})

	t.Run("Sort is stable", func(t *testing.T) {
		items := []scored{
			{name: "first", pop: 1, tag: "g1"},
			{name: "second", pop: 1, tag: "g1"},
			{name: "third", pop: 1, tag: "g2"},
			{name: "fourth", pop: 1, tag: "g2"},
		}

		// comparator ignores the grouping tag entirely
		Sort(items, Descending(func(s scored) float64 { return s.pop }))

		want := []string{"first", "second", "third", "fourth"}
		for i, w := range want {
			if items[i].name != w {
				t.Errorf("stability violated at %d: got %s, want %s", i, items[i].name, w)
			}
		}
	})
}

func TestSimilarity(t *testing.T) {
	t.Run("exact match beats partial match", func(t *testing.T) {
		exact := Similarity("The xx - Test Me", "the xx - test me")
		partial := Similarity("The xx - Test Me", "The xx - Crystalised")
		if exact <= partial {
			t.Errorf("exact=%f should exceed partial=%f", exact, partial)
		}
	})

	t.Run("empty strings score zero", func(t *testing.T) {
		if got := Similarity("", "anything"); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})

	t.Run("whitespace and case folded", func(t *testing.T) {
		a := Similarity("Artist  -  Title", "artist - title")
		if a < 0.99 {
			t.Errorf("expected near-exact score, got %f", a)
		}
	})
}

func TestAlbumTypeWeight(t *testing.T) {
	order := []string{"album", "single", "appears_on", "compilation", "bootleg"}
	for i := 0; i < len(order)-1; i++ {
		if AlbumTypeWeight(order[i]) <= AlbumTypeWeight(order[i+1]) {
			t.Errorf("%s should outrank %s", order[i], order[i+1])
		}
	}

	if AlbumTypeWeight("Album") != AlbumTypeWeight("album") {
		t.Error("album type ranking should be case-insensitive")
	}
}
