package receipt

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Server", func() {
	var (
		service     *Service
		server      *Server
		auth        BasicAuth
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		server = NewServerWithMux(service, auth, http.NewServeMux())
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	post := func(path, contentType, body string) *http.Response {
		req, err := http.NewRequest("POST", ghttpServer.URL()+path, strings.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", contentType)
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	readReceipt := func(resp *http.Response) *Receipt {
		defer resp.Body.Close()
		var receipt Receipt
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(body, &receipt)).To(Succeed())
		return &receipt
	}

	readError := func(resp *http.Response) string {
		defer resp.Body.Close()
		var payload map[string]string
		Expect(json.NewDecoder(resp.Body).Decode(&payload)).To(Succeed())
		return payload["error"]
	}

	BeforeEach(func() {
		service = NewService(newMockStorage())
		auth = BasicAuth{}
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	Describe("handleRenderReceipt", func() {
		When("the body is plain text", func() {
			It("should return status OK", func() {
				resp := post("/api/receipts", "text/plain", input1)
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})

			It("should return the receipt as JSON", func() {
				resp := post("/api/receipts", "text/plain", input1)
				Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
				receipt := readReceipt(resp)
				Expect(receipt.Text).To(Equal(expectation1))
				Expect(receipt.SalesTaxes).To(Equal("1.50"))
				Expect(receipt.Total).To(Equal("29.83"))
				Expect(receipt.Lines).To(HaveLen(3))
			})
		})

		When("the body is JSON lines", func() {
			It("should render them", func() {
				body, err := json.Marshal(map[string][]string{"lines": strings.Split(input3, "\n")})
				Expect(err).NotTo(HaveOccurred())
				receipt := readReceipt(post("/api/receipts", "application/json", string(body)))
				Expect(receipt.Text).To(Equal(expectation3))
			})
		})

		When("the body is JSON cart text", func() {
			It("should render it", func() {
				body, err := json.Marshal(map[string]string{"cart": input2})
				Expect(err).NotTo(HaveOccurred())
				receipt := readReceipt(post("/api/receipts", "application/json; charset=utf-8", string(body)))
				Expect(receipt.Total).To(Equal("65.15"))
			})
		})

		When("the JSON is invalid", func() {
			It("should return status Bad Request", func() {
				resp := post("/api/receipts", "application/json", "{not json")
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				Expect(readError(resp)).To(Equal("Invalid JSON body"))
			})
		})

		When("a line is malformed", func() {
			It("should return status Bad Request with the parse error", func() {
				resp := post("/api/receipts", "text/plain", "1 book for 12.49")
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				Expect(readError(resp)).To(ContainSubstring("the word 'at'"))
			})
		})

		When("a value is negative", func() {
			It("should return status Bad Request", func() {
				resp := post("/api/receipts", "text/plain", "-1 book at 12.49")
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				Expect(readError(resp)).To(ContainSubstring("negative quantity"))
			})
		})

		When("the body is too large", func() {
			It("should return status Request Entity Too Large", func() {
				big := bytes.Repeat([]byte("1 book at 12.49\n"), 70000)
				resp := post("/api/receipts", "text/plain", string(big))
				Expect(resp.StatusCode).To(Equal(http.StatusRequestEntityTooLarge))
				resp.Body.Close()
			})
		})

		When("request method is not POST", func() {
			It("should return status Method Not Allowed", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/receipts")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
				resp.Body.Close()
			})
		})
	})

	Describe("handleRenderBatch", func() {
		It("should return the numbered receipts as text", func() {
			resp := post("/api/batch", "text/plain", batchInput)
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/plain"))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal(batchOutput))
		})

		It("should return status Bad Request for a malformed cart", func() {
			resp := post("/api/batch", "text/plain", "Input 1:\ndgf<sh<dsfzdfg\n")
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			resp.Body.Close()
		})
	})

	Describe("handleHealth", func() {
		It("should return ok", func() {
			resp, err := http.Get(ghttpServer.URL() + "/healthz")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal("ok"))
		})
	})

	Describe("CORS", func() {
		It("should answer preflight requests", func() {
			req, err := http.NewRequest("OPTIONS", ghttpServer.URL()+"/api/receipts", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "clerk", Password: "secret"}
			setupServer()
		})

		When("credentials are missing", func() {
			It("should return status Unauthorized", func() {
				resp := post("/api/receipts", "text/plain", input1)
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				Expect(resp.Header.Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
			})
		})

		When("credentials are wrong", func() {
			It("should return status Unauthorized", func() {
				req, err := http.NewRequest("POST", ghttpServer.URL()+"/api/receipts", strings.NewReader(input1))
				Expect(err).NotTo(HaveOccurred())
				req.SetBasicAuth("clerk", "wrong")
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				resp.Body.Close()
			})
		})

		When("credentials are only a prefix of the configured ones", func() {
			It("should return status Unauthorized", func() {
				for _, creds := range [][2]string{{"clerk", "secre"}, {"cler", "secret"}, {"clerk", "secret!"}} {
					req, err := http.NewRequest("POST", ghttpServer.URL()+"/api/receipts", strings.NewReader(input1))
					Expect(err).NotTo(HaveOccurred())
					req.SetBasicAuth(creds[0], creds[1])
					resp, err := http.DefaultClient.Do(req)
					Expect(err).NotTo(HaveOccurred())
					Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized), "credentials %q", creds)
					resp.Body.Close()
				}
			})
		})

		When("credentials are correct", func() {
			It("should return status OK", func() {
				req, err := http.NewRequest("POST", ghttpServer.URL()+"/api/receipts", strings.NewReader(input1))
				Expect(err).NotTo(HaveOccurred())
				req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("clerk:secret")))
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})
		})

		When("checking health", func() {
			It("should not require credentials", func() {
				resp, err := http.Get(ghttpServer.URL() + "/healthz")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})
		})
	})
})
