package testhelpers

import (
	"net/http"
	"net/http/httptest"

	"golang.org/x/text/encoding/charmap"
)

// SampleListCSV is a small List export: two wines, one with critic scores.
const SampleListCSV = "iWine,Wine,Vintage,Producer,Country,Quantity,Price,PurchaseDate,WA,WS,JS\n" +
	"100,\"Château Margaux, Premier Cru\",2015,Margaux,France,3,850.00,6/15/2023,95,93,\n" +
	"101,Opus One,2018,Opus One Winery,USA,2,400.00,1/5/2024,,,97\n"

// SampleBottlesCSV pairs with SampleListCSV and carries one bottle whose
// wine (999) is absent from the list.
const SampleBottlesCSV = "Barcode,iWine,Wine,Vintage,Producer,BottleState,Location,Bin,Price,PurchaseDate,ConsumeDate\n" +
	"B001,100,\"Château Margaux, Premier Cru\",2015,Margaux,1,Cellar,A5,850.00,6/15/2023,\n" +
	"B002,100,\"Château Margaux, Premier Cru\",2015,Margaux,1,Cellar,A5,850.00,6/15/2023,\n" +
	"B003,101,Opus One,2018,Opus One Winery,1,Cellar,E2,400.00,1/5/2024,\n" +
	"B004,999,Old Burgundy,1999,Domaine Leroy,0,,,,3/10/2002,1/5/2020\n"

// NewCellarTrackerServer serves windows-1252 encoded CSV for the two export
// tables, the way the real endpoint does.
func NewCellarTrackerServer(listCSV, bottlesCSV string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body string
		switch r.URL.Query().Get("Table") {
		case "List":
			body = listCSV
		case "Bottles":
			body = bottlesCSV
		default:
			http.Error(w, "unknown table", http.StatusBadRequest)
			return
		}
		encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(body))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=windows-1252")
		_, _ = w.Write(encoded)
	}))
}
