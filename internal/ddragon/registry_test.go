package ddragon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDDragonServer(t *testing.T) *httptest.Server {
	t.Helper()

	files := map[string]string{
		"/api/versions.json": `["14.20.1","14.19.1"]`,
		"/cdn/14.20.1/data/en_US/item.json": `{"data":{
			"3157":{"name":"Zhonya's Hourglass","gold":{"total":3250}},
			"3364":{"name":"Oracle Lens","gold":{"total":0}}}}`,
		"/cdn/14.20.1/data/en_US/runesReforged.json": `[{"id":8100,"key":"Domination","name":"Domination","icon":"perk-images/Styles/7200_Domination.png",
			"slots":[{"runes":[{"id":8112,"key":"Electrocute","name":"Electrocute","icon":"perk-images/Styles/Domination/Electrocute/Electrocute.png"}]}]}]`,
		"/cdn/14.20.1/data/en_US/summoner.json": `{"data":{
			"SummonerFlash":{"id":"SummonerFlash","key":"4","name":"Flash"},
			"SummonerSmite":{"id":"SummonerSmite","key":"11","name":"Smite"}}}`,
		"/cdn/14.20.1/data/en_US/champion.json": `{"data":{
			"MonkeyKing":{"id":"MonkeyKing","key":"62","name":"Wukong"}}}`,
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestRegistry_Load(t *testing.T) {
	server := newDDragonServer(t)
	defer server.Close()

	reg := NewRegistry(WithBaseURL(server.URL))
	require.NoError(t, reg.Load(context.Background()))

	assert.True(t, reg.IsLoaded())
	assert.Equal(t, "14.20.1", reg.Version())
	assert.Equal(t, "Zhonya's Hourglass", reg.ItemName(3157))
	assert.Equal(t, "Item 9999", reg.ItemName(9999))
	assert.Equal(t, server.URL+"/cdn/14.20.1/img/item/3157.png", reg.ItemIcon(3157))
	assert.Equal(t, "Electrocute", reg.RuneName(8112))
	assert.Equal(t, server.URL+"/cdn/img/perk-images/Styles/Domination/Electrocute/Electrocute.png", reg.RuneIcon(8112))
	assert.Equal(t, "Domination", reg.TreeName(8100))
	assert.Equal(t, "Smite", reg.SpellName(11))
	assert.Equal(t, server.URL+"/cdn/14.20.1/img/spell/SummonerFlash.png", reg.SpellIcon(4))
	assert.Equal(t, server.URL+"/cdn/14.20.1/img/champion/MonkeyKing.png", reg.ChampionIcon("Wukong"))
	assert.Equal(t, server.URL+"/cdn/14.20.1/img/champion/MonkeyKing.png", reg.ChampionIcon("MonkeyKing"))
}

func TestRegistry_FallbacksBeforeLoad(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"static rune", reg.RuneName(8010), "Conqueror"},
		{"stat shard", reg.RuneName(5008), "Adaptive Force"},
		{"unknown rune", reg.RuneName(1), "Rune 1"},
		{"static tree", reg.TreeName(8400), "Resolve"},
		{"unknown tree", reg.TreeName(9), "Tree 9"},
		{"static spell", reg.SpellName(14), "Ignite"},
		{"unknown spell", reg.SpellName(99), "Spell 99"},
		{"unknown item", reg.ItemName(3157), "Item 3157"},
		{"no icon without version", reg.ItemIcon(3157), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	assert.False(t, reg.IsLoaded())
}

func TestRegistry_LoadFailureKeepsFallbacks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	reg := NewRegistry(WithBaseURL(server.URL))
	assert.Error(t, reg.Load(context.Background()))
	assert.False(t, reg.IsLoaded())
	assert.Equal(t, "Flash", reg.SpellName(4))
}
