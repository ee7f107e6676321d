package merge

import (
	"testing"

	"github.com/pezkuwi/wallet-config/internal/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, body string) chain.Record {
	return chain.Record{ChainID: id, Raw: []byte(body)}
}

func ids(set chain.Set) []string {
	out := make([]string, len(set))
	for i, r := range set {
		out[i] = r.ChainID
	}
	return out
}

func TestChainsDisjoint(t *testing.T) {
	base := chain.Set{record("0x1", `{"chainId":"0x1"}`), record("0x2", `{"chainId":"0x2"}`)}
	overlay := chain.Set{record("0xa", `{"chainId":"0xa"}`), record("0xb", `{"chainId":"0xb"}`)}

	merged := Chains(base, overlay)
	assert.Equal(t, []string{"0xa", "0xb", "0x1", "0x2"}, ids(merged))
}

func TestChainsOverlayWinsOnCollision(t *testing.T) {
	base := chain.Set{
		record("0x1", `{"chainId":"0x1","name":"Polkadot"}`),
		record("0x2", `{"chainId":"0x2","name":"Acala"}`),
	}
	overlay := chain.Set{
		record("0x1", `{"chainId":"0x1","name":"Pezkuwi-Override"}`),
		record("0x3", `{"chainId":"0x3","name":"Pezkuwi"}`),
	}

	merged := Chains(base, overlay)
	require.Equal(t, []string{"0x1", "0x3", "0x2"}, ids(merged))
	assert.Contains(t, string(merged[0].Raw), "Pezkuwi-Override")
	assert.Contains(t, string(merged[2].Raw), "Acala")
}

func TestChainsEmptySets(t *testing.T) {
	base := chain.Set{record("0x1", `{"chainId":"0x1"}`)}
	overlay := chain.Set{record("0xa", `{"chainId":"0xa"}`)}

	assert.Equal(t, []string{"0x1"}, ids(Chains(base, nil)))
	assert.Equal(t, []string{"0xa"}, ids(Chains(nil, overlay)))
	assert.Empty(t, Chains(nil, nil))
}

func TestChainsOrderPreserved(t *testing.T) {
	base := chain.Set{
		record("b1", `{"chainId":"b1"}`),
		record("dup", `{"chainId":"dup","src":"base"}`),
		record("b2", `{"chainId":"b2"}`),
		record("b3", `{"chainId":"b3"}`),
	}
	overlay := chain.Set{
		record("o1", `{"chainId":"o1"}`),
		record("dup", `{"chainId":"dup","src":"overlay"}`),
	}

	merged := Chains(base, overlay)
	assert.Equal(t, []string{"o1", "dup", "b1", "b2", "b3"}, ids(merged))
	assert.Contains(t, string(merged[1].Raw), "overlay")
}

func TestChainsDeterministic(t *testing.T) {
	base := chain.Set{record("0x1", `{"chainId":"0x1"}`), record("0x2", `{"chainId":"0x2"}`)}
	overlay := chain.Set{record("0x2", `{"chainId":"0x2","name":"x"}`)}

	first, err := Chains(base, overlay).MarshalIndent()
	require.NoError(t, err)
	second, err := Chains(base, overlay).MarshalIndent()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
