/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package xerrors_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pbsgopi/ship-proxy-system/internal/xerrors"
)

const testCode xerrors.CodeError = iota + 60000

var _ = Describe("[TC-XE] code registration", func() {
	BeforeEach(func() {
		if !xerrors.ExistInMapMessage(testCode) {
			xerrors.RegisterIdFctMessage(testCode, func(code xerrors.CodeError) string {
				if code == testCode {
					return "test code message"
				}
				return ""
			})
		}
	})

	It("[TC-XE-001] resolves a registered message", func() {
		Expect(xerrors.GetMessage(testCode)).To(Equal("test code message"))
	})

	It("[TC-XE-002] falls back to unknown for an unregistered code", func() {
		Expect(xerrors.GetMessage(xerrors.CodeError(65000))).To(Equal(xerrors.UnknownMessage))
	})

	It("[TC-XE-003] builds an Error carrying the code", func() {
		e := testCode.Error()
		Expect(e.Code()).To(Equal(testCode))
		Expect(e.IsCode(testCode)).To(BeTrue())
	})

	It("[TC-XE-004] chains parents and unwraps to the first", func() {
		root := errors.New("dial tcp: connection refused")
		e := xerrors.New(testCode, "uplink dial failed", root)

		Expect(errors.Unwrap(e)).To(Equal(root))
		Expect(e.GetParent()).To(HaveLen(1))
	})

	It("[TC-XE-005] IfError wraps only non-nil parents", func() {
		Expect(testCode.IfError(nil, nil)).To(BeNil())
		Expect(testCode.IfError(nil, errors.New("boom"))).NotTo(BeNil())
	})
})
