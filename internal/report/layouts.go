package report

// chromeSnippets defines the branding header and verification footer shared
// by every layout. The QR image always encodes the verification URL for the
// reference number, never the bare reference.
const chromeSnippets = `{{define "brandHeader"}}<div class="doc-header">
{{if .Brand.Logo}}<img class="logo" src="{{.Brand.Logo}}" alt="logo">{{end}}
<div>
<h2 style="color: {{.Brand.Color}};">{{.Brand.Name}}</h2>
{{if .Brand.Address}}<p class="muted">{{.Brand.Address}}</p>{{end}}
{{if .Brand.Motto}}<p class="muted"><em>{{.Brand.Motto}}</em></p>{{end}}
</div>
</div>{{end}}
{{define "verifyFooter"}}<div class="doc-footer">
<div class="reference">
<p>Reference: <strong>{{.Meta.Reference}}</strong></p>
<p>Generated: {{.Meta.Generated}}</p>
</div>
{{if .Meta.QR}}<img class="qr" src="{{.Meta.QR}}" alt="verification qr code">{{end}}
</div>{{end}}
`

// --- Transcript ---

type transcriptRow struct {
	Code    string
	Title   string
	Credits string
	Grade   string
	Points  string
}

type transcriptView struct {
	StudentName  string
	StudentID    string
	Program      string
	GPA          string
	TotalCredits string
	Rows         []transcriptRow
}

// buildTranscriptView resolves the per-row candidate keys in priority
// order so heterogeneous payload shapes render identically. Totals are
// never computed here; absent gpa/totalCredits render as '-'.
func buildTranscriptView(data map[string]interface{}) transcriptView {
	view := transcriptView{
		StudentName:  fieldString(data, "studentName", "recipientName", "name"),
		StudentID:    fieldString(data, "studentId", "studentNumber"),
		Program:      fieldString(data, "program", "programName"),
		GPA:          fieldStringOr(data, "-", "gpa"),
		TotalCredits: fieldStringOr(data, "-", "totalCredits"),
	}
	for _, row := range rowsOf(data, "results") {
		view.Rows = append(view.Rows, transcriptRow{
			Code:    fieldString(row, "code", "courseCode"),
			Title:   fieldString(row, "title", "courseName"),
			Credits: fieldString(row, "credits", "credit"),
			Grade:   fieldString(row, "grade"),
			Points:  fieldString(row, "points", "gradePoint"),
		})
	}
	return view
}

var transcriptLayout = mustLayout("transcript", `{{template "brandHeader" .}}
<h1>Academic Transcript</h1>
<p><strong>{{.Data.StudentName}}</strong>{{if .Data.StudentID}} &mdash; {{.Data.StudentID}}{{end}}</p>
{{if .Data.Program}}<p class="muted">{{.Data.Program}}</p>{{end}}
<table>
<thead><tr><th>Code</th><th>Title</th><th>Credits</th><th>Grade</th><th>Points</th></tr></thead>
<tbody>
{{range .Data.Rows}}<tr><td>{{.Code}}</td><td>{{.Title}}</td><td>{{.Credits}}</td><td>{{.Grade}}</td><td>{{.Points}}</td></tr>
{{end}}</tbody>
</table>
<p>GPA: <strong>{{.Data.GPA}}</strong> &nbsp; Total Credits: <strong>{{.Data.TotalCredits}}</strong></p>
{{template "verifyFooter" .}}`)

// --- Certificate ---

type customField struct {
	Label string
	Value string
}

type certificateView struct {
	RecipientName  string
	ProgramName    string
	CompletionDate string
	Description    string
	Signatory      string
	Custom         []customField
}

func buildCertificateView(data map[string]interface{}) certificateView {
	view := certificateView{
		RecipientName:  fieldString(data, "recipientName", "name"),
		ProgramName:    fieldString(data, "programName", "program"),
		CompletionDate: prettyDate(fieldString(data, "completionDate")),
		Description:    fieldString(data, "description"),
		Signatory:      fieldString(data, "signatory", "signatoryName"),
	}
	custom := mapOf(data, "customFields")
	for _, key := range sortedKeys(custom) {
		view.Custom = append(view.Custom, customField{Label: key, Value: stringify(custom[key])})
	}
	return view
}

var certificateLayout = mustLayout("certificate", `{{template "brandHeader" .}}
<div style="text-align: center;">
<h1 style="color: {{.Brand.Color}};">Certificate of Completion</h1>
<p>This certifies that</p>
<h2>{{.Data.RecipientName}}</h2>
<p>has successfully completed</p>
<h3>{{.Data.ProgramName}}</h3>
{{if .Data.CompletionDate}}<p>on {{.Data.CompletionDate}}</p>{{end}}
{{if .Data.Description}}<p class="muted">{{.Data.Description}}</p>{{end}}
{{range .Data.Custom}}<p class="muted">{{.Label}}: {{.Value}}</p>
{{end}}
{{if .Brand.Stamp}}<img src="{{.Brand.Stamp}}" alt="seal" style="max-height: 80pt; margin-top: 12pt;">{{end}}
{{if .Data.Signatory}}<div class="signature-line" style="margin-left: auto; margin-right: auto;">{{.Data.Signatory}}</div>{{end}}
</div>
{{template "verifyFooter" .}}`)

// --- Receipt ---

type receiptItem struct {
	Description string
	Amount      string
}

type receiptView struct {
	PayerName     string
	PaymentMethod string
	TransactionID string
	Amount        string
	Items         []receiptItem
}

func buildReceiptView(data map[string]interface{}) receiptView {
	currency := fieldStringOr(data, "USD", "currency")
	view := receiptView{
		PayerName:     fieldString(data, "payerName", "name"),
		PaymentMethod: fieldString(data, "paymentMethod"),
		TransactionID: fieldString(data, "transactionId", "transactionID"),
		Amount:        formatAmount(data["amount"], currency),
	}
	for _, item := range rowsOf(data, "items") {
		view.Items = append(view.Items, receiptItem{
			Description: fieldString(item, "description", "name"),
			Amount:      formatAmount(item["amount"], currency),
		})
	}
	return view
}

var receiptLayout = mustLayout("receipt", `{{template "brandHeader" .}}
<h1>Payment Receipt</h1>
<p>Received from: <strong>{{.Data.PayerName}}</strong></p>
{{if .Data.PaymentMethod}}<p>Payment method: {{.Data.PaymentMethod}}</p>{{end}}
{{if .Data.TransactionID}}<p>Transaction: {{.Data.TransactionID}}</p>{{end}}
{{if .Data.Items}}<table>
<thead><tr><th>Description</th><th>Amount</th></tr></thead>
<tbody>
{{range .Data.Items}}<tr><td>{{.Description}}</td><td>{{.Amount}}</td></tr>
{{end}}</tbody>
</table>{{end}}
<h3>Total: {{.Data.Amount}}</h3>
{{template "verifyFooter" .}}`)

// --- Attendance ---

type attendeeRow struct {
	Index int
	Name  string
	Email string
	Phone string
}

type attendanceView struct {
	Purpose   string
	EventDate string
	Rows      []attendeeRow
}

func buildAttendanceView(data map[string]interface{}) attendanceView {
	view := attendanceView{
		Purpose:   fieldString(data, "purpose", "eventName"),
		EventDate: prettyDate(fieldString(data, "eventDate", "date")),
	}
	for i, row := range rowsOf(data, "attendees") {
		view.Rows = append(view.Rows, attendeeRow{
			Index: i + 1,
			Name:  fieldString(row, "name", "fullName"),
			Email: fieldString(row, "email"),
			Phone: fieldString(row, "phone"),
		})
	}
	return view
}

var attendanceLayout = mustLayout("attendance", `{{template "brandHeader" .}}
<h1>Attendance Sheet</h1>
{{if .Data.Purpose}}<p>{{.Data.Purpose}}</p>{{end}}
{{if .Data.EventDate}}<p class="muted">{{.Data.EventDate}}</p>{{end}}
<table>
<thead><tr><th>#</th><th>Name</th><th>Email</th><th>Phone</th><th>Signature</th></tr></thead>
<tbody>
{{range .Data.Rows}}<tr><td>{{.Index}}</td><td>{{.Name}}</td><td>{{.Email}}</td><td>{{.Phone}}</td><td>&nbsp;</td></tr>
{{end}}</tbody>
</table>
{{template "verifyFooter" .}}`)

// --- Generic fallback ---

type genericView struct {
	Title  string
	Fields []customField
}

func buildGenericView(data map[string]interface{}) genericView {
	view := genericView{Title: fieldStringOr(data, "Report", "title", "templateName")}
	for _, key := range sortedKeys(data) {
		switch key {
		case "title", "templateName":
			continue
		}
		switch data[key].(type) {
		case map[string]interface{}, []interface{}:
			continue
		}
		view.Fields = append(view.Fields, customField{Label: key, Value: stringify(data[key])})
	}
	return view
}

var genericLayout = mustLayout("generic", `{{template "brandHeader" .}}
<h1>{{.Data.Title}}</h1>
<table>
<tbody>
{{range .Data.Fields}}<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{end}}</tbody>
</table>
{{template "verifyFooter" .}}`)
