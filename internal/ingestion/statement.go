package ingestion

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// tagRegex matches one "<TAG>value" or "</TAG>" token. SGML OFX leaves leaf
// elements unclosed, XML OFX closes them; both shapes fit.
var tagRegex = regexp.MustCompile(`<(/?)([A-Za-z0-9.]+)>([^<]*)`)

var entityReplacer = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")

// ErrNoAccount is returned for statements without an <ACCTID>.
var ErrNoAccount = errors.New("statement has no <ACCTID>")

// RawTransaction holds the untouched tokens of one <STMTTRN> block.
type RawTransaction struct {
	Line     int // line of the opening <STMTTRN>
	Type     string
	Posted   string
	UserDate string
	Amount   string
	FITID    string
	Name     string
	Memo     string
}

// Statement is the subset of an OFX/QFX statement the pipeline needs.
type Statement struct {
	AccountID    string
	Currency     string
	ServerDate   string
	Transactions []RawTransaction
}

// ReadStatement scans an OFX/QFX body and collects its account, currency
// and transaction tokens. Date and amount tokens are returned verbatim;
// converting them is the caller's job.
//
// It fails on:
//   - nested or unterminated <STMTTRN> blocks
//   - a transaction without FITID, DTPOSTED or TRNAMT
//   - a statement without ACCTID
func ReadStatement(r io.Reader) (Statement, error) {
	var (
		st    Statement
		cur   *RawTransaction
		line  int
		inTxn bool
	)

	sc := bufio.NewScanner(r)
	// Some banks emit the whole document on one line.
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for sc.Scan() {
		line++
		for _, m := range tagRegex.FindAllStringSubmatch(sc.Text(), -1) {
			closing := m[1] == "/"
			tag := strings.ToUpper(m[2])
			value := entityReplacer.Replace(strings.TrimSpace(m[3]))

			switch {
			case tag == "STMTTRN" && !closing:
				if inTxn {
					return st, fmt.Errorf("line %d: nested <STMTTRN>", line)
				}
				inTxn = true
				cur = &RawTransaction{Line: line}

			case tag == "STMTTRN" && closing:
				if !inTxn {
					return st, fmt.Errorf("line %d: </STMTTRN> without opening tag", line)
				}
				if err := validateRaw(cur); err != nil {
					return st, fmt.Errorf("line %d: %w", cur.Line, err)
				}
				st.Transactions = append(st.Transactions, *cur)
				inTxn = false
				cur = nil

			case closing || value == "":
				// end of a leaf element or an aggregate opening tag

			case inTxn:
				assignTxnField(cur, tag, value)

			default:
				switch tag {
				case "ACCTID":
					if st.AccountID == "" {
						st.AccountID = value
					}
				case "CURDEF":
					if st.Currency == "" {
						st.Currency = value
					}
				case "DTSERVER":
					st.ServerDate = value
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("read line %d: %w", line+1, err)
	}
	if inTxn {
		return st, fmt.Errorf("line %d: unterminated <STMTTRN>", cur.Line)
	}
	if st.AccountID == "" {
		return st, ErrNoAccount
	}
	return st, nil
}

func assignTxnField(t *RawTransaction, tag, value string) {
	switch tag {
	case "TRNTYPE":
		t.Type = value
	case "DTPOSTED":
		t.Posted = value
	case "DTUSER":
		t.UserDate = value
	case "TRNAMT":
		t.Amount = value
	case "FITID":
		t.FITID = value
	case "NAME":
		t.Name = value
	case "MEMO":
		t.Memo = value
	}
}

func validateRaw(t *RawTransaction) error {
	var missing []string
	if t.FITID == "" {
		missing = append(missing, "FITID")
	}
	if t.Posted == "" {
		missing = append(missing, "DTPOSTED")
	}
	if t.Amount == "" {
		missing = append(missing, "TRNAMT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("transaction missing %s", strings.Join(missing, ", "))
	}
	return nil
}
