package versions

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"vantage/db"
	"vantage/models"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"go.mongodb.org/mongo-driver/bson"
)

// Manifest handles GET /api/versions/manifest/:versionid, rendering a
// checksum manifest release engineers can hand out alongside installers.
func Manifest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	versionID := ps.ByName("versionid")

	var v models.Version
	err := db.VersionsCollection.FindOne(context.TODO(), bson.M{"versionid": versionID}).Decode(&v)
	if err != nil {
		http.Error(w, "Version not found", http.StatusNotFound)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Checksum Manifest %s", v.Version))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Release date: %s", v.ReleaseDate.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Release type: %s", v.ReleaseType))
	pdf.Ln(10)

	for _, f := range v.Files {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 8, f.FileName)
		pdf.Ln(6)
		pdf.SetFont("Courier", "", 8)
		for _, h := range f.Hashes {
			pdf.Cell(0, 5, fmt.Sprintf("%-8s %s", h.Algo, h.Value))
			pdf.Ln(4)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=manifest-"+v.Version+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
