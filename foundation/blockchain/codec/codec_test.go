package codec_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/chain"
	"github.com/ardanlabs/ledger/foundation/blockchain/codec"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func buildChain(t *testing.T) (*chain.Chain, chain.Config) {
	ctx := context.Background()

	cfg, err := genesis.Default().ChainConfig(nil)
	ifErrFailNow(t, err)
	cfg.Now = func() time.Time { return time.Date(2018, time.March, 4, 10, 20, 30, 0, time.UTC) }

	ch, err := chain.New(cfg)
	ifErrFailNow(t, err)

	_, err = ch.AddBlock(ctx, ch.NewBlock())
	ifErrFailNow(t, err)

	tx, err := database.NewTx("Mary", "John", 10, database.International)
	ifErrFailNow(t, err)

	next, err := ch.NextBlock(ctx, []database.Tx{tx})
	ifErrFailNow(t, err)

	_, err = ch.AddBlock(ctx, next)
	ifErrFailNow(t, err)

	return ch, cfg
}

func Test_RoundTrip(t *testing.T) {
	ch, cfg := buildChain(t)

	t.Log("Given the need to export a chain and load it back.")
	{
		for testID, format := range codec.Formats() {
			t.Logf("\tTest %d:\tWhen using the %s format.", testID, format)
			{
				f := func(t *testing.T) {
					b, err := codec.Encode(format, ch.Export())
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould encode the chain: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould encode the chain.", success, testID)

					data, err := codec.Decode(format, b)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould decode the chain: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould decode the chain.", success, testID)

					loaded, err := chain.Load(cfg, data)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould load a chain that verifies: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould load a chain that verifies.", success, testID)

					if loaded.Len() != ch.Len() {
						t.Fatalf("\t%s\tTest %d:\tShould have %d blocks, got %d.", failed, testID, ch.Len(), loaded.Len())
					}
					t.Logf("\t%s\tTest %d:\tShould have %d blocks.", success, testID, ch.Len())
				}

				t.Run(format, f)
			}
		}
	}
}

func Test_JSONFields(t *testing.T) {
	ch, _ := buildChain(t)

	t.Log("Given the need for a readable export.")
	{
		t.Logf("\tTest 0:\tWhen encoding to json.")
		{
			b, err := codec.Encode(codec.FormatJSON, ch.Export())
			ifErrFailNow(t, err)

			for _, field := range []string{`"blocks"`, `"previous_hash"`, `"hash"`, `"nonce"`, `"date_created"`, `"transactions"`, `"fees"`, `"transaction_type": "international"`} {
				if !strings.Contains(string(b), field) {
					t.Fatalf("\t%s\tTest 0:\tShould contain %s.", failed, field)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould contain the block and transaction fields.", success)
		}

		t.Logf("\tTest 1:\tWhen asking for an unknown format.")
		{
			if _, err := codec.Encode("xml", ch.Export()); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould get an error encoding.", failed)
			}
			if _, err := codec.Decode("xml", nil); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould get an error decoding.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould get an error.", success)
		}
	}
}
