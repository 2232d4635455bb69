package middleware

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"

	"github.com/m04kA/SMC-BlinkBooking/internal/service/access"
)

const (
	tokenQueryParam = "token"
	accessLogTime   = "02/Jan/2006:15:04:05 -0700"
)

// AccessLog пишет access log в combined формате
// Значение token в query заменяется на отпечаток, полный токен в лог не попадает
func AccessLog(out io.Writer, next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(out, next, writeAccessLog)
}

func writeAccessLog(w io.Writer, params handlers.LogFormatterParams) {
	host, _, err := net.SplitHostPort(params.Request.RemoteAddr)
	if err != nil {
		host = params.Request.RemoteAddr
	}

	referer := params.Request.Referer()
	if referer == "" {
		referer = "-"
	}
	userAgent := params.Request.UserAgent()
	if userAgent == "" {
		userAgent = "-"
	}

	_, _ = fmt.Fprintf(w, "%s - - [%s] %s %d %s %s %s\n",
		host,
		params.TimeStamp.Format(accessLogTime),
		strconv.Quote(params.Request.Method+" "+redactedURI(params)+" "+params.Request.Proto),
		params.StatusCode,
		strconv.Itoa(params.Size),
		strconv.Quote(referer),
		strconv.Quote(userAgent),
	)
}

func redactedURI(params handlers.LogFormatterParams) string {
	u := params.URL
	query := u.Query()
	if tokens, ok := query[tokenQueryParam]; ok {
		for i, token := range tokens {
			tokens[i] = "fp:" + access.Fingerprint(token)
		}
		u.RawQuery = query.Encode()
	}
	return u.RequestURI()
}
