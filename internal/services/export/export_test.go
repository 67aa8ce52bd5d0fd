package export

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"kameo_report/internal/services/report"
)

const sample = "BFM 8 AS - 4481 | Løpetid: 26 m | Rente: 14,00%\n" +
	"2024-02-06\tTildeling\t−2000,00\tNOK\t100,00\t−2000,00\n" +
	"2024-03-06\tRenteinntekt\t23,33\tNOK\t100,00\t23,33\n" +
	"Acme AS - 100 | Løpetid: 12 m | Rente: 10,00%\n" +
	"2024-01-01\tTildeling\t-1000,00\tNOK\t100,00\t-1000,00\n"

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		100:          "100.0",
		-1000:        "-1000.0",
		8.33:         "8.33",
		0:            "0.0",
		math.Inf(1):  "inf",
		math.Inf(-1): "-inf",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatFloat(in))
	}
	assert.Equal(t, "", FormatFloat(math.NaN()))
}

func TestTransactionTable(t *testing.T) {
	rep := report.Build(sample)
	tbl := TransactionTable(rep.Transactions)

	assert.Equal(t, TransactionsName, tbl.Name)
	require.Len(t, tbl.Rows, 3)
	for _, row := range tbl.Rows {
		assert.Len(t, row, len(TransactionColumns))
	}

	first := tbl.Rows[0]
	assert.Equal(t, "Acme AS", first[0])
	assert.Equal(t, int64(100), first[1])
	assert.Equal(t, "Venter", first[2])
	assert.Equal(t, "2025-02-01", first[5])
	assert.Equal(t, "2024-01-01", first[16])
	assert.Equal(t, "Tildeling", first[17])
}

func TestLenderTable(t *testing.T) {
	rep := report.Build(sample)
	tbl := LenderTable(rep.Lenders)
	require.Len(t, tbl.Rows, 2)

	acme := tbl.Rows[0]
	assert.Equal(t, []any{"Acme AS", "Venter", "2024-01-01", 1, 10.0, 100.0, -1000.0, 0.0, 0.0, 0.0, 0.0}, acme)

	bfm := tbl.Rows[1]
	assert.Equal(t, "BFM 8 AS", bfm[0])
	assert.Equal(t, "Aktiv", bfm[1])
	assert.Equal(t, "2024-03-06", bfm[2])
	assert.InDelta(t, 23.33, bfm[9].(float64), 1e-9)
	assert.InDelta(t, 23.33, bfm[10].(float64), 1e-9)
}

func TestWriteCSV(t *testing.T) {
	rep := report.Build("Acme AS - 100 | Løpetid: 12 m | Rente: 10,00%\n" +
		"2024-02-01\tRenteinntekt\t5,00\tNOK\t100,00\t5,00\n")

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, TransactionTable(rep.Transactions)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(TransactionColumns, ","), lines[0])
	assert.Equal(t,
		"Acme AS,100,Aktiv,12,1,2025-02-01,10.0,0.0,5.0,-5.0,inf,0.0,0.0,0.0,5.0,inf,2024-02-01,Renteinntekt,5.0",
		lines[1])
}

func TestWriteCSV_emptyTableHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, LenderTable(nil)))
	assert.Equal(t, strings.Join(LenderColumns, ",")+"\n", buf.String())
}

func TestWriteCSV_deterministic(t *testing.T) {
	render := func() []byte {
		var buf bytes.Buffer
		for _, tbl := range Tables(report.Build(sample)) {
			require.NoError(t, WriteCSV(&buf, tbl))
		}
		return buf.Bytes()
	}
	assert.Equal(t, render(), render())
}

func TestWriteXLSX(t *testing.T) {
	rep := report.Build("Acme AS - 100 | Løpetid: 12 m | Rente: 10,00%\n" +
		"2024-02-01\tRenteinntekt\t5,00\tNOK\t100,00\t5,00\n")

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, TransactionTable(rep.Transactions)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, TransactionColumns, rows[0])
	assert.Equal(t, "Acme AS", rows[1][0])
	assert.Equal(t, "100", rows[1][1])
	assert.Equal(t, "inf", rows[1][10])
	assert.Equal(t, "Renteinntekt", rows[1][17])
}

func TestEncode_unknownFormat(t *testing.T) {
	_, _, err := Encode(Table{}, "parquet")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorIs(t, ValidateFormats([]string{"csv", "json"}), ErrUnknownFormat)
	assert.NoError(t, ValidateFormats([]string{"csv", "xlsx"}))
}

func TestLocalSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := LocalSink{Dir: dir, Formats: []string{FormatXLSX, FormatCSV}}

	written, err := sink.Write(context.Background(), "run-1", report.Build(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "transformed_kameo.xlsx"),
		filepath.Join(dir, "transformed_kameo.csv"),
		filepath.Join(dir, "transformed_kameo_lender.xlsx"),
		filepath.Join(dir, "transformed_kameo_lender.csv"),
	}, written)
	for _, p := range written {
		st, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, st.Size())
	}
}

type fakePutter struct {
	keys  []string
	types []string
}

func (f *fakePutter) PutBytes(_ context.Context, key string, data []byte, contentType string) (minio.UploadInfo, error) {
	f.keys = append(f.keys, key)
	f.types = append(f.types, contentType)
	return minio.UploadInfo{Key: key, Size: int64(len(data))}, nil
}

func TestS3Sink(t *testing.T) {
	p := &fakePutter{}
	sink := S3Sink{Store: p, Bucket: "kameo", Prefix: "reports", Formats: []string{FormatCSV}}

	written, err := sink.Write(context.Background(), "run-1", report.Build(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/run-1/transformed_kameo.csv", "reports/run-1/transformed_kameo_lender.csv"}, p.keys)
	assert.Equal(t, []string{contentTypeCSV, contentTypeCSV}, p.types)
	assert.Equal(t, "s3://kameo/reports/run-1/transformed_kameo.csv", written[0])
}
