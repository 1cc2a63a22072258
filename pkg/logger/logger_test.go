package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/dbtime-app/pkg/logger"
)

var _ = Describe("Logger", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	Describe("New", func() {
		It("should write text records outside prod", func() {
			log := logger.New(buf, "info", "dev")
			log.Info("App listening on port 3000")

			Expect(buf.String()).To(ContainSubstring("msg=\"App listening on port 3000\""))
			Expect(buf.String()).To(ContainSubstring("environment=dev"))
		})

		It("should write JSON records in prod", func() {
			log := logger.New(buf, "info", "prod")
			log.Error("DB error", slog.String("kind", "connect_failed"))

			var record map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
			Expect(record["msg"]).To(Equal("DB error"))
			Expect(record["kind"]).To(Equal("connect_failed"))
			Expect(record["environment"]).To(Equal("prod"))
		})

		It("should drop records below the configured level", func() {
			log := logger.New(buf, "warn", "dev")
			log.Info("ignored")

			Expect(buf.Len()).To(BeZero())
		})

		It("should respect debug level", func() {
			log := logger.New(buf, "debug", "dev")

			Expect(log.Enabled(context.Background(), slog.LevelDebug)).To(BeTrue())
			Expect(log.Enabled(context.Background(), slog.LevelInfo)).To(BeTrue())
		})

		It("should respect error level", func() {
			log := logger.New(buf, "error", "staging")

			Expect(log.Enabled(context.Background(), slog.LevelWarn)).To(BeFalse())
			Expect(log.Enabled(context.Background(), slog.LevelError)).To(BeTrue())
		})
	})

	Describe("ParseLevel", func() {
		DescribeTable("level names",
			func(name string, expected slog.Level) {
				Expect(logger.ParseLevel(name)).To(Equal(expected))
			},
			Entry("debug", "debug", slog.LevelDebug),
			Entry("info", "info", slog.LevelInfo),
			Entry("warn", "warn", slog.LevelWarn),
			Entry("warning alias", "WARNING", slog.LevelWarn),
			Entry("error", "Error", slog.LevelError),
			Entry("unknown defaults to info", "verbose", slog.LevelInfo),
			Entry("empty defaults to info", "", slog.LevelInfo),
		)
	})
})
