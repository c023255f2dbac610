package gvm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvmrun/gvmrun/pkg/gmp"
)

func TestGetReport_XMLFormatSerializesReportNode(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<get_reports",
		`<get_reports_response status="200">`+
			`<report id="report-uuid"><results><result>finding</result></results></report>`+
			`</get_reports_response>`)

	payload, err := newTestClient(bridge).GetReport(context.Background(), "report-uuid", gmp.ReportFormatXML)
	require.NoError(t, err)
	assert.Equal(t,
		`<report id="report-uuid"><results><result>finding</result></results></report>`,
		string(payload))
}

func TestGetReport_OtherFormatsDecodeBase64(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<get_reports",
		`<get_reports_response status="200">`+
			`<report id="report-uuid">SGVsbG8=</report>`+
			`</get_reports_response>`)

	pdfFormat, err := gmp.ReportFormatID("PDF")
	require.NoError(t, err)

	payload, err := newTestClient(bridge).GetReport(context.Background(), "report-uuid", pdfFormat)
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(payload))
}

func TestGetReport_Base64SpansLines(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<get_reports",
		"<get_reports_response><report>SGVs\nbG8=\n</report></get_reports_response>")

	payload, err := newTestClient(bridge).GetReport(context.Background(), "report-uuid", "txt-format")
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(payload))
}

func TestGetReport_EmptyResponseYieldsNoReport(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<get_reports", "")

	_, err := newTestClient(bridge).GetReport(context.Background(), "report-uuid", gmp.ReportFormatXML)
	require.ErrorIs(t, err, ErrNoReport)
}

func TestGetReport_MissingReportNodeYieldsNoReport(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<get_reports", `<get_reports_response status="404"/>`)

	_, err := newTestClient(bridge).GetReport(context.Background(), "report-uuid", "txt-format")
	require.ErrorIs(t, err, ErrNoReport)
}

func TestGetReport_EmptyPayloadYieldsNoReport(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<get_reports", "<get_reports_response><report></report></get_reports_response>")

	_, err := newTestClient(bridge).GetReport(context.Background(), "report-uuid", "txt-format")
	require.ErrorIs(t, err, ErrNoReport)
}

func TestGetReport_CorruptBase64IsAnError(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<get_reports", "<get_reports_response><report>!!notbase64!!</report></get_reports_response>")

	_, err := newTestClient(bridge).GetReport(context.Background(), "report-uuid", "txt-format")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoReport)
}
