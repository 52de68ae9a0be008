package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"cellar-sync/internal/cellar_sync/parser"
)

var syncedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMapWineBasicFields(t *testing.T) {
	wine := MapWine(parser.Record{
		"iWine":    "123",
		"Wine":     "Test Wine",
		"Vintage":  "2020",
		"Producer": "Test Producer",
		"Country":  "France",
	}, syncedAt)

	assert.Equal(t, "123", wine["ct_wine_id"])
	assert.Equal(t, "Test Wine", wine["wine_name"])
	assert.Equal(t, "2020", wine["vintage"])
	assert.Equal(t, "Test Producer", wine["producer"])
	assert.Equal(t, "France", wine["country"])
	assert.Equal(t, syncedAt, wine["last_sync_at"])
}

func TestMapWineNumericFields(t *testing.T) {
	wine := MapWine(parser.Record{
		"iWine":     "123",
		"Price":     "99.99",
		"Valuation": "150.00",
		"CT":        "92",
		"Quantity":  "3",
	}, syncedAt)

	assert.Equal(t, 99.99, wine["price"])
	assert.Equal(t, 150.00, wine["valuation"])
	assert.Equal(t, 92.0, wine["ct_score"])
	assert.Equal(t, 3, wine["quantity"])
}

func TestMapWineDates(t *testing.T) {
	wine := MapWine(parser.Record{
		"iWine":        "123",
		"PurchaseDate": "6/15/2023",
	}, syncedAt)
	assert.Equal(t, "2023-06-15", wine["purchase_date"])
}

func TestMapWineEmptyRawFieldIsNull(t *testing.T) {
	wine := MapWine(parser.Record{
		"iWine":    "123",
		"Producer": "",
	}, syncedAt)
	v, ok := wine["producer"]
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestMapWineInvalidNumberIsNull(t *testing.T) {
	wine := MapWine(parser.Record{
		"iWine": "123",
		"Price": "n/a",
	}, syncedAt)
	v, ok := wine["price"]
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestMapWineCriticScores(t *testing.T) {
	wine := MapWine(parser.Record{
		"iWine": "123",
		"WA":    "95",
		"WS":    "93",
		"JS":    "",
	}, syncedAt)

	scores, ok := wine["critic_scores"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.M{"WA": 95.0, "WS": 93.0}, scores)
}

func TestMapWineNoCriticScoresKeyAbsent(t *testing.T) {
	wine := MapWine(parser.Record{"iWine": "123"}, syncedAt)
	_, ok := wine["critic_scores"]
	assert.False(t, ok)
}

func TestMapBottleBasicFields(t *testing.T) {
	bottle := MapBottle(parser.Record{
		"Barcode":  "1234567890",
		"iWine":    "123",
		"Location": "Cellar A",
		"Bin":      "B5",
	}, syncedAt)

	assert.Equal(t, "1234567890", bottle["ct_bottle_id"])
	assert.Equal(t, "123", bottle["wine_id"])
	assert.Equal(t, "Cellar A", bottle["location"])
	assert.Equal(t, "B5", bottle["bin"])
	assert.Equal(t, syncedAt, bottle["last_sync_at"])
}

func TestMapBottleState(t *testing.T) {
	inStock := MapBottle(parser.Record{"Barcode": "1", "iWine": "1", "BottleState": "1"}, syncedAt)
	consumed := MapBottle(parser.Record{"Barcode": "2", "iWine": "1", "BottleState": "0"}, syncedAt)
	assert.Equal(t, 1, inStock["bottle_state"])
	assert.Equal(t, 0, consumed["bottle_state"])
}

func TestMapBottleStateDefaultsToInStock(t *testing.T) {
	missing := MapBottle(parser.Record{"Barcode": "1", "iWine": "1"}, syncedAt)
	garbage := MapBottle(parser.Record{"Barcode": "2", "iWine": "1", "BottleState": "??"}, syncedAt)
	assert.Equal(t, 1, missing["bottle_state"])
	assert.Equal(t, 1, garbage["bottle_state"])
}

func TestMapBottleDates(t *testing.T) {
	bottle := MapBottle(parser.Record{
		"Barcode":      "1",
		"iWine":        "1",
		"PurchaseDate": "3/10/2022",
		"ConsumeDate":  "1/5/2025",
	}, syncedAt)
	assert.Equal(t, "2022-03-10", bottle["purchase_date"])
	assert.Equal(t, "2025-01-05", bottle["consumed_date"])
}
