package e2etest

import (
	"github.com/myrjola/foxtrail/internal/errors"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// loopbackCookieJar stores Secure cookies sent over plain HTTP by a server on the loopback interface. The session and
// CSRF cookies are Secure, and the test server does not speak TLS.
type loopbackCookieJar struct {
	jar *cookiejar.Jar
}

func newLoopbackCookieJar() (*loopbackCookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "new cookie jar")
	}
	return &loopbackCookieJar{jar: jar}, nil
}

func (j *loopbackCookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if isLoopback(u.Hostname()) {
		for _, cookie := range cookies {
			cookie.Secure = false
		}
	}
	j.jar.SetCookies(u, cookies)
}

func (j *loopbackCookieJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
