/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package session_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/localhost/session"
)

var _ = Describe("Store", func() {
	var (
		now   time.Time
		clock func() time.Time
		store *session.Store
	)

	BeforeEach(func() {
		now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		clock = func() time.Time { return now }
		store = session.NewWithClock(30*time.Minute, clock)
	})

	It("issues a fresh id for an empty cookie", func() {
		sess, err := store.Touch("")
		Expect(err).ToNot(HaveOccurred())
		Expect(sess.ID).ToNot(BeEmpty())
		Expect(store.Len()).To(Equal(1))
	})

	It("returns the same session on a second touch with its id", func() {
		first, err := store.Touch("")
		Expect(err).ToNot(HaveOccurred())

		second, err := store.Touch(first.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(second.ID).To(Equal(first.ID))
		Expect(store.Len()).To(Equal(1))
	})

	It("slides the expiry forward on access", func() {
		first, err := store.Touch("")
		Expect(err).ToNot(HaveOccurred())
		firstExpiry := first.Expires

		now = now.Add(10 * time.Minute)
		second, err := store.Touch(first.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(second.Expires.After(firstExpiry)).To(BeTrue())
	})

	It("issues a fresh id once the old one has expired", func() {
		first, err := store.Touch("")
		Expect(err).ToNot(HaveOccurred())

		now = now.Add(time.Hour)
		second, err := store.Touch(first.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(second.ID).ToNot(Equal(first.ID))
	})

	It("reports ErrorNotFound for an unknown id via Get", func() {
		_, err := store.Get("nope")
		Expect(err).To(HaveOccurred())
	})

	It("does not slide expiry on Get", func() {
		first, _ := store.Touch("")
		firstExpiry := first.Expires

		now = now.Add(time.Minute)
		again, err := store.Get(first.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(again.Expires).To(Equal(firstExpiry))
	})

	It("sweeps expired sessions", func() {
		first, _ := store.Touch("")
		_ = first
		now = now.Add(time.Hour)
		Expect(store.Sweep()).To(Equal(1))
		Expect(store.Len()).To(Equal(0))
	})

	It("reports its configured timeout", func() {
		Expect(store.Timeout()).To(Equal(30 * time.Minute))
	})
})
