package httpserver_test

import (
	"io"
	"net"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/dbtime-app/internal/httpserver"
)

var _ = Describe("HTTP Server", func() {
	noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	Context("server creation", func() {
		DescribeTable("accepted addresses",
			func(addr string) {
				srv, err := httpserver.New(addr, noop)
				Expect(err).NotTo(HaveOccurred())
				Expect(srv.Addr()).To(Equal(addr))
			},
			Entry("hostname", "localhost:3000"),
			Entry("IP address", "127.0.0.1:3000"),
			Entry("port only", ":3000"),
		)

		DescribeTable("rejected addresses",
			func(addr string) {
				srv, err := httpserver.New(addr, noop)
				Expect(err).To(HaveOccurred())
				Expect(srv).To(BeNil())
			},
			Entry("too many colons", "invalid:host:port"),
			Entry("missing port", "localhost"),
			Entry("empty port", "localhost:"),
			Entry("non-numeric port", ":http"),
			Entry("port out of range", ":70000"),
		)
	})

	Context("server lifecycle", func() {
		var testServer *httpserver.Server

		AfterEach(func() {
			if testServer != nil {
				_ = testServer.Close()
			}
		})

		It("starts and handles requests", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("test"))
			})
			var err error
			testServer, err = httpserver.New(":19999", handler)
			Expect(err).NotTo(HaveOccurred())
			Expect(testServer.Listen()).To(Succeed())

			go func() {
				testServer.Start()
			}()

			var resp *http.Response
			Eventually(func() error {
				resp, err = http.Get("http://localhost:19999")
				return err
			}, 2*time.Second, 50*time.Millisecond).Should(Succeed())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(Equal("test"))
		})

		It("returns nil from Start after Close", func() {
			var err error
			testServer, err = httpserver.New(":19998", noop)
			Expect(err).NotTo(HaveOccurred())
			Expect(testServer.Listen()).To(Succeed())

			errCh := make(chan error, 1)
			go func() {
				errCh <- testServer.Start()
			}()

			Eventually(func() error {
				resp, err := http.Get("http://localhost:19998")
				if err == nil {
					resp.Body.Close()
				}
				return err
			}, 2*time.Second, 50*time.Millisecond).Should(Succeed())

			Expect(testServer.Close()).To(Succeed())
			Eventually(errCh, time.Second).Should(Receive(BeNil()))
		})

		It("accepts connections once Listen returns", func() {
			var err error
			testServer, err = httpserver.New(":19996", noop)
			Expect(err).NotTo(HaveOccurred())
			Expect(testServer.Listen()).To(Succeed())

			conn, err := net.Dial("tcp", "localhost:19996")
			Expect(err).NotTo(HaveOccurred())
			conn.Close()
		})

		It("fails to listen on a port already in use", func() {
			busy, err := net.Listen("tcp", ":19995")
			Expect(err).NotTo(HaveOccurred())
			defer busy.Close()

			testServer, err = httpserver.New(":19995", noop)
			Expect(err).NotTo(HaveOccurred())

			Expect(testServer.Listen()).NotTo(Succeed())
			Expect(testServer.Start()).NotTo(Succeed())
		})
	})
})
