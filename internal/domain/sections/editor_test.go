package sections

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"web3builder/internal/domain/website"
)

func sample(n int) []Section {
	out := make([]Section, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Section{
			ID:      fmt.Sprintf("s%d", i),
			Type:    "hero",
			Name:    "Hero",
			Content: json.RawMessage(fmt.Sprintf(`{"n":%d}`, i)),
		})
	}
	return out
}

func ids(list []Section) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func TestEditorAdd(t *testing.T) {
	e := NewEditor(DefaultCatalog())

	t.Run("known type appends an expanded empty section", func(t *testing.T) {
		in := sample(2)
		out := e.Add(in, "roadmap")

		require.Len(t, out, 3)
		assert.Len(t, in, 2, "input must not change")
		added := out[2]
		assert.Equal(t, "roadmap", added.Type)
		assert.Equal(t, "Roadmap", added.Name)
		assert.JSONEq(t, `{}`, string(added.Content))
		assert.NotEmpty(t, added.ID)
		assert.True(t, e.IsExpanded(added.ID))
	})

	t.Run("unknown type is a no-op", func(t *testing.T) {
		in := sample(2)
		out := e.Add(in, "does-not-exist")
		assert.Equal(t, in, out)
	})

	t.Run("rapid adds get distinct ids", func(t *testing.T) {
		var list []Section
		for i := 0; i < 500; i++ {
			list = e.Add(list, "header")
		}
		seen := map[string]bool{}
		for _, s := range list {
			require.False(t, seen[s.ID], "duplicate id %s", s.ID)
			seen[s.ID] = true
		}
	})
}

func TestEditorRemove(t *testing.T) {
	e := NewEditor(DefaultCatalog())
	list := e.Add(sample(2), "footer")
	footerID := list[2].ID
	require.True(t, e.IsExpanded(footerID))

	out := e.Remove(list, footerID)
	assert.Equal(t, []string{"s0", "s1"}, ids(out))
	assert.False(t, e.IsExpanded(footerID))

	assert.Equal(t, ids(out), ids(e.Remove(out, "missing")))
}

func TestEditorDuplicate(t *testing.T) {
	e := NewEditor(DefaultCatalog())
	in := sample(3)

	out, err := e.Duplicate(in, 1)
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Equal(t, "s0", out[0].ID)
	assert.Equal(t, "s1", out[1].ID)
	assert.Equal(t, "s2", out[3].ID)

	dup := out[2]
	assert.NotEqual(t, in[1].ID, dup.ID)
	assert.Equal(t, in[1].Type, dup.Type)
	assert.JSONEq(t, string(in[1].Content), string(dup.Content))
	assert.True(t, e.IsExpanded(dup.ID))

	// the copy owns its content
	dup.Content[0] = '['
	assert.JSONEq(t, `{"n":1}`, string(in[1].Content))

	for _, idx := range []int{-1, 3, 10} {
		_, err := e.Duplicate(in, idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", idx)
	}
}

func TestEditorReorder(t *testing.T) {
	e := NewEditor(DefaultCatalog())
	in := sample(5)

	tests := []struct {
		name     string
		src, dst int
		want     []string
	}{
		{"forward", 0, 3, []string{"s1", "s2", "s3", "s0", "s4"}},
		{"backward", 4, 1, []string{"s0", "s4", "s1", "s2", "s3"}},
		{"same position", 2, 2, []string{"s0", "s1", "s2", "s3", "s4"}},
		{"to end", 1, 4, []string{"s0", "s2", "s3", "s4", "s1"}},
		{"src out of range", 5, 0, []string{"s0", "s1", "s2", "s3", "s4"}},
		{"dst out of range", 0, -1, []string{"s0", "s1", "s2", "s3", "s4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.Reorder(in, tt.src, tt.dst)
			assert.Equal(t, tt.want, ids(out))
			assert.Equal(t, []string{"s0", "s1", "s2", "s3", "s4"}, ids(in), "input must not change")
		})
	}
}

func TestEditorExpandStateFollowsIdentity(t *testing.T) {
	e := NewEditor(DefaultCatalog())
	list := sample(3)
	e.Toggle("s0")

	list = e.Reorder(list, 0, 2)
	assert.Equal(t, []string{"s0"}, e.Expanded(list))

	e.Toggle("s0")
	assert.Empty(t, e.Expanded(list))
}

// Random operation sequences must never alter sections they do not touch.
func TestEditorIdentityStability(t *testing.T) {
	e := NewEditor(DefaultCatalog())
	rng := rand.New(rand.NewSource(42))
	types := []string{"header", "hero", "footer", "nope"}

	list := sample(4)
	for step := 0; step < 2000; step++ {
		before := map[string]string{}
		for _, s := range list {
			before[s.ID] = string(s.Content)
		}

		var touched string
		switch rng.Intn(4) {
		case 0:
			list = e.Add(list, types[rng.Intn(len(types))])
		case 1:
			if len(list) > 0 {
				touched = list[rng.Intn(len(list))].ID
				list = e.Remove(list, touched)
			}
		case 2:
			if len(list) > 0 {
				out, err := e.Duplicate(list, rng.Intn(len(list)))
				require.NoError(t, err)
				list = out
			}
		case 3:
			n := len(list) + 2
			before := ids(list)
			list = e.Reorder(list, rng.Intn(n)-1, rng.Intn(n)-1)
			assert.ElementsMatch(t, before, ids(list))
		}

		after := map[string]string{}
		for _, s := range list {
			after[s.ID] = string(s.Content)
		}
		for id, content := range before {
			if id == touched {
				continue
			}
			got, ok := after[id]
			require.True(t, ok, "step %d lost section %s", step, id)
			require.Equal(t, content, got)
		}
	}
}

func TestMergeCatalog(t *testing.T) {
	blocks := []website.ContentBlock{
		{ID: "b1", Type: "token-chart", Name: "Token Chart", IsPremium: true},
		{ID: "b2", Type: "hero", Name: "Big Hero"},
		{ID: "b3", Type: "faq", Name: "FAQ"},
	}

	got := MergeCatalog(DefaultCatalog(), blocks)

	require.Len(t, got, len(DefaultCatalog())+2)
	assert.Equal(t, "Big Hero", got.DisplayName("hero"))
	assert.Equal(t, "FAQ", got[len(got)-2].Name)
	assert.Equal(t, "Token Chart", got[len(got)-1].Name)
	assert.True(t, got[len(got)-1].IsPremium)
	assert.Equal(t, "mystery", got.DisplayName("mystery"))
}

func TestDefaultSeed(t *testing.T) {
	n := 0
	seed := DefaultSeed(DefaultCatalog(), func() string { n++; return fmt.Sprintf("id-%d", n) })

	require.Len(t, seed, 4)
	assert.Equal(t, []string{"id-1", "id-2", "id-3", "id-4"}, ids(seed))
	var types []string
	for _, s := range seed {
		types = append(types, s.Type)
		assert.JSONEq(t, `{}`, string(s.Content))
	}
	assert.Equal(t, []string{"header", "hero", "features", "footer"}, types)
}
