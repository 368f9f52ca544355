package irparser

// Parser is a push parser over LLVM IR text. Every recognized
// production opens a node, emits its tokens and child productions and
// closes the node; on an expectation failure the current node is
// cancelled and the enclosing top-level item terminates.
type Parser struct {
	lx   *Lexer
	recv Receiver
	tok  Token
}

// nodeCtx tracks an open node for the source location event
type nodeCtx struct {
	event Event
	line  int
	col   int
	index int
}

// NewParser creates a parser over the buffer, reporting to recv
func NewParser(input string, recv Receiver) *Parser {
	return &Parser{lx: NewLexer(input), recv: recv}
}

// Run parses top-level items until the source is exhausted
func (p *Parser) Run() bool {
	p.readFirstToken()
	for {
		if !p.parseNext() {
			break
		}
	}
	return true
}

func (p *Parser) readFirstToken() {
	p.tok = p.lx.Lex()
	p.skipWhitespaceAndComments()
}

// readNextToken advances past the current token, re-emitting any
// whitespace and comments as data events
func (p *Parser) readNextToken() {
	p.tok = p.lx.Lex()
	p.skipWhitespaceAndComments()
}

func (p *Parser) skipWhitespaceAndComments() {
	for {
		switch p.tok.Kind {
		case TokWhitespace:
			p.recv.Data(EventWhitespace, p.tok.Text)
		case TokComment:
			p.recv.Data(EventComment, p.tok.Text)
		default:
			return
		}
		p.tok = p.lx.Lex()
	}
}

// AtEndOfSource reports whether the lexer is exhausted
func (p *Parser) AtEndOfSource() bool {
	return p.tok.Kind == TokEOF
}

func (p *Parser) startNode(e Event) *nodeCtx {
	p.recv.NodeStart(e)
	return &nodeCtx{event: e, line: p.tok.Line, col: p.tok.Column, index: p.tok.Index}
}

// endNode emits the source location and the close event
func (p *Parser) endNode(ctx *nodeCtx) bool {
	p.recv.SourceLocation(ctx.line, ctx.col, ctx.index, p.tok.Index-ctx.index)
	p.recv.NodeEnd(ctx.event)
	return true
}

// cancelNode closes the node without a source location
func (p *Parser) cancelNode(ctx *nodeCtx) bool {
	p.recv.NodeEnd(ctx.event)
	return false
}

// sendData emits the current token under the event and consumes it
func (p *Parser) sendData(e Event) {
	p.recv.Data(e, p.tok.Text)
	p.readNextToken()
}

// expect consumes a token of the given kind or reports an error
func (p *Parser) expect(kind TokenKind, errMessage string, e Event) bool {
	if p.tok.Kind == kind {
		p.sendData(e)
		return true
	}
	p.errorHere(errMessage)
	return false
}

func (p *Parser) errorHere(message string) {
	p.recv.Data(EventInvalid, p.tok.Text)
	p.recv.Error(message, p.tok.Line, p.tok.Column)
}

func (p *Parser) isKw(kw Keyword) bool {
	return p.tok.Kind == TokKeyword && p.tok.Keyword == kw
}

// parseNext dispatches one top-level item
func (p *Parser) parseNext() bool {
	switch p.tok.Kind {
	case TokEOF:
		return false
	case TokLocalVar, TokLocalVarID:
		return p.parseLocalVar()
	case TokKeyword:
		switch p.tok.Keyword {
		case KwDefine:
			return p.parseDefine()
		case KwDeclare:
			return p.parseDeclare()
		default:
			if isInstructionKeyword(p.tok.Keyword) {
				ate := false
				return p.parseInstruction(&ate)
			}
		}
	}
	p.errorHere("unknown token at top level")
	return false
}

func isInstructionKeyword(kw Keyword) bool {
	switch kw {
	case KwUnreachable, KwRet, KwBr, KwSwitch, KwIndirectBr, KwInvoke,
		KwResume, KwCleanupRet, KwCatchRet, KwCatchSwitch, KwCatchPad,
		KwCleanupPad, KwCallBr, KwFneg, KwAdd, KwSub, KwMul, KwShl, KwFAdd,
		KwFSub, KwFMul, KwFDiv, KwFRem, KwSDiv, KwUDiv, KwLShr, KwAShr,
		KwURem, KwSRem, KwAnd, KwOr, KwXor, KwICmp, KwFCmp, KwTrunc, KwZExt,
		KwSExt, KwFPTrunc, KwFPExt, KwBitcast, KwAddrSpaceCast, KwUIToFP,
		KwSIToFP, KwFPToUI, KwFPToSI, KwIntToPtr, KwPtrToInt, KwSelect,
		KwVaArg, KwExtractElement, KwInsertElement, KwShuffleVector, KwPhi,
		KwLandingPad, KwCall, KwTail, KwMustTail, KwNoTail, KwAlloca, KwLoad,
		KwStore, KwCmpXchg, KwAtomicRMW, KwFence, KwGetElementPtr,
		KwExtractValue, KwInsertValue:
		return true
	}
	return false
}

// parseLocalVar handles `%x = <instruction>` at top level
func (p *Parser) parseLocalVar() bool {
	ctx := p.startNode(EventLocalVar)
	if p.tok.Kind != TokLocalVar && p.tok.Kind != TokLocalVarID {
		return p.cancelNode(ctx)
	}
	p.sendData(EventLocalVar)
	if p.tok.Kind != TokEqual {
		p.recv.Error("Unexpected token", p.tok.Line, p.tok.Column)
	}
	if !p.expect(TokEqual, "expected '=' after variable", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	ate := false
	p.parseInstruction(&ate)
	return p.endNode(ctx)
}

// parseInstruction dispatches one instruction. ateExtraComma flows out
// of memory operations whose trailing comma announces metadata.
func (p *Parser) parseInstruction(ateExtraComma *bool) bool {
	ctx := p.startNode(EventInstruction)
	valid := false
	if p.tok.Kind != TokKeyword {
		p.recv.Error("expected instruction opcode", p.tok.Line, p.tok.Column)
		return p.cancelNode(ctx)
	}
	switch p.tok.Keyword {
	case KwUnreachable:
		valid = p.parseUnreachable()
	case KwRet:
		valid = p.parseRet()
	case KwBr:
		valid = p.parseBr()
	case KwSwitch:
		valid = p.parseSwitch()
	case KwIndirectBr:
		valid = p.parseIndirectBr()
	case KwInvoke:
		valid = p.parseInvoke()
	case KwResume:
		valid = p.parseResume()
	case KwCleanupRet:
		valid = p.parseCleanupRet()
	case KwCatchRet:
		valid = p.parseCatchRet()
	case KwCatchSwitch:
		valid = p.parseCatchSwitch()
	case KwCatchPad:
		valid = p.parsePad(EventCatchPad)
	case KwCleanupPad:
		valid = p.parsePad(EventCleanupPad)
	case KwFneg:
		valid = p.parseFneg()
	case KwAdd, KwSub, KwMul, KwShl:
		valid = p.parseBinaryOp(false, true, false)
	case KwFAdd, KwFSub, KwFMul, KwFDiv, KwFRem:
		valid = p.parseBinaryOp(true, false, false)
	case KwSDiv, KwUDiv, KwLShr, KwAShr:
		valid = p.parseBinaryOp(false, false, true)
	case KwURem, KwSRem:
		valid = p.parseArithmetic()
	case KwAnd, KwOr, KwXor:
		valid = p.parseLogical()
	case KwICmp, KwFCmp:
		valid = p.parseCompare()
	case KwTrunc, KwZExt, KwSExt, KwFPTrunc, KwFPExt, KwBitcast,
		KwAddrSpaceCast, KwUIToFP, KwSIToFP, KwFPToUI, KwFPToSI,
		KwIntToPtr, KwPtrToInt:
		valid = p.parseCast()
	case KwSelect:
		valid = p.parseSelect()
	case KwExtractElement:
		valid = p.parseExtractElement()
	case KwInsertElement:
		valid = p.parseInsertElement()
	case KwShuffleVector:
		valid = p.parseShuffleVector()
	case KwPhi:
		valid = p.parsePhi(ateExtraComma)
	case KwCall:
		valid = p.parseCall()
	case KwAlloca:
		valid = p.parseAlloca(ateExtraComma)
	case KwLoad:
		valid = p.parseLoad(ateExtraComma)
	case KwStore:
		valid = p.parseStore(ateExtraComma)
	case KwCmpXchg:
		valid = p.parseCmpXchng(ateExtraComma)
	case KwAtomicRMW:
		valid = p.parseAtomicRMW(ateExtraComma)
	case KwFence:
		valid = p.parseFence()
	case KwGetElementPtr:
		valid = p.parseGetElementPtr(ateExtraComma)
	case KwExtractValue:
		valid = p.parseExtractValue(ateExtraComma)
	case KwInsertValue:
		valid = p.parseInsertValue(ateExtraComma)
	default:
		p.recv.Error("expected instruction opcode", p.tok.Line, p.tok.Column)
	}
	if !valid {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

func (p *Parser) parseUnreachable() bool {
	ctx := p.startNode(EventUnreachable)
	p.sendData(EventUnreachable)
	return p.endNode(ctx)
}

func (p *Parser) parseDeclare() bool {
	ctx := p.startNode(EventDeclare)
	p.sendData(EventDeclare)
	if !p.parseFunctionHeader() {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

func (p *Parser) parseDefine() bool {
	ctx := p.startNode(EventDefine)
	p.sendData(EventDefine)
	if !p.parseFunctionHeader() {
		return p.cancelNode(ctx)
	}
	if !p.parseOptionalFunctionMetadata() {
		return p.cancelNode(ctx)
	}
	p.parseFunctionBody()
	return p.endNode(ctx)
}

func (p *Parser) parseFunctionHeader() bool {
	ctx := p.startNode(EventFunctionHeader)
	if !p.parseOptionalLinkage() {
		return p.cancelNode(ctx)
	}
	p.parseOptionalCallingConv()
	p.parseOptionalReturnAttrs()
	var ignore Event
	if !p.parseType(&ignore) {
		return p.cancelNode(ctx)
	}
	switch p.tok.Kind {
	case TokGlobalVar:
		p.sendData(EventFunctionName)
	case TokGlobalID:
		p.sendData(EventFunctionID)
	}
	if !p.parseArgumentList() {
		return p.cancelNode(ctx)
	}
	p.parseOptionalUnnamedAddr()
	p.parseFnAttributeValuePairs(false)
	if p.isKw(KwSection) {
		p.sendData(EventSection)
		if !p.parseValue(&ignore) {
			return p.cancelNode(ctx)
		}
	}
	if p.isKw(KwPartition) {
		p.sendData(EventPartition)
		if !p.parseValue(&ignore) {
			return p.cancelNode(ctx)
		}
	}
	if !p.parseOptionalComdat() {
		return p.cancelNode(ctx)
	}
	p.parseOptionalAlignment()
	if p.isKw(KwGC) {
		p.sendData(EventGc)
		if !p.parseValue(&ignore) {
			return p.cancelNode(ctx)
		}
	}
	if p.isKw(KwPrefix) {
		p.sendData(EventPrefix)
		if !p.parseTypeAndValue(&ignore) {
			return p.cancelNode(ctx)
		}
	}
	if p.isKw(KwPrologue) {
		p.sendData(EventPrologue)
		if !p.parseTypeAndValue(&ignore) {
			return p.cancelNode(ctx)
		}
	}
	if p.isKw(KwPersonality) {
		p.sendData(EventPersonality)
		if !p.parseTypeAndValue(&ignore) {
			return p.cancelNode(ctx)
		}
	}
	return p.endNode(ctx)
}

func (p *Parser) parseOptionalFunctionMetadata() bool {
	for p.tok.Kind == TokMetadataVar {
		if !p.parseGlobalObjectMetadataAttachment() {
			return false
		}
	}
	return true
}

func (p *Parser) parseGlobalObjectMetadataAttachment() bool {
	ctx := p.startNode(EventGlobalObjectMetadata)
	if !p.parseMetadataAttachment() {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

func (p *Parser) parseMetadataAttachment() bool {
	if p.tok.Kind != TokMetadataVar {
		p.recv.Error("Expected metadata attachment", p.tok.Line, p.tok.Column)
		return false
	}
	ctx := p.startNode(EventMetadata)
	p.sendData(EventMetadata)
	var ignore Event
	if !p.parseValue(&ignore) {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

// parseInstructionMetadata consumes the !name !N pairs that follow an
// instruction's trailing comma
func (p *Parser) parseInstructionMetadata() bool {
	if p.tok.Kind != TokMetadataVar {
		p.recv.Error("expected metadata after comma", p.tok.Line, p.tok.Column)
		return false
	}
	for p.tok.Kind == TokMetadataVar {
		if !p.parseMetadataAttachment() {
			return false
		}
		if p.tok.Kind == TokComma {
			p.sendData(EventPunctuation)
			if p.tok.Kind != TokMetadataVar {
				p.recv.Error("expected metadata after comma", p.tok.Line, p.tok.Column)
				return false
			}
		}
	}
	return true
}

func (p *Parser) parseArgumentList() bool {
	ctx := p.startNode(EventArgumentList)
	if !p.expect(TokLParen, "expected '(' in argument list", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	switch p.tok.Kind {
	case TokRParen:
		// empty
	case TokDotDotDot:
		p.sendData(EventVariadic)
	default:
		done := false
		for !done {
			done = true
			if p.tok.Kind == TokDotDotDot {
				p.sendData(EventVariadic)
				break
			}
			var ignore Event
			if !p.parseType(&ignore) {
				return p.cancelNode(ctx)
			}
			p.parseOptionalParamAttrs()
			if p.tok.Kind == TokLocalVar {
				p.sendData(EventAttributeName)
			}
			if p.tok.Kind == TokComma {
				p.sendData(EventPunctuation)
				done = false
			}
		}
	}
	if !p.expect(TokRParen, "expected ')' at end of argument list", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

func (p *Parser) parseOptionalUnnamedAddr() {
	if p.isKw(KwUnnamedAddr) || p.isKw(KwLocalUnnamedAddr) {
		p.sendData(EventUnnamedAddr)
	}
}

func (p *Parser) parseOptionalComdat() bool {
	if !p.isKw(KwComdat) {
		return true
	}
	ctx := p.startNode(EventComdat)
	p.sendData(EventComdat)
	if p.tok.Kind == TokLParen {
		p.sendData(EventPunctuation)
		if p.tok.Kind == TokComdatVar {
			p.sendData(EventComdatVar)
		} else {
			p.errorHere("expected comdat variable")
			return p.cancelNode(ctx)
		}
		if !p.expect(TokRParen, "expected ')' after comdat var", EventPunctuation) {
			return p.cancelNode(ctx)
		}
	}
	return p.endNode(ctx)
}

func (p *Parser) parseFunctionBody() bool {
	ctx := p.startNode(EventFunctionBody)
	if !p.expect(TokLBrace, "expected '{' in function body", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	if p.tok.Kind == TokRBrace {
		p.sendData(EventPunctuation)
		p.recv.Error("function body requires at least one basic block", p.tok.Line, p.tok.Column)
		return p.cancelNode(ctx)
	}
	for p.tok.Kind != TokRBrace && !p.isKw(KwUseListOrder) && p.tok.Kind != TokEOF {
		if !p.parseBasicBlock() {
			return p.cancelNode(ctx)
		}
	}
	if !p.expect(TokRBrace, "expected '}' at end of function body", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

func (p *Parser) parseBasicBlock() bool {
	ctx := p.startNode(EventBasicBlock)
	if p.tok.Kind == TokLabelStr || p.tok.Kind == TokLabelID {
		p.sendData(EventBasicBlock)
	}
	done := false
	for !done {
		done = true
		if p.tok.Kind == TokLocalVarID {
			p.sendData(EventLocalVarID)
			if !p.expect(TokEqual, "expected '=' after instruction id", EventPunctuation) {
				return p.cancelNode(ctx)
			}
		} else if p.tok.Kind == TokLocalVar {
			p.sendData(EventLocalVar)
			if !p.expect(TokEqual, "expected '=' after instruction name", EventPunctuation) {
				return p.cancelNode(ctx)
			}
		}
		ateExtraComma := false
		if !p.parseInstruction(&ateExtraComma) {
			return p.cancelNode(ctx)
		}
		done = false
		if ateExtraComma {
			// the comma was consumed inside the instruction, metadata
			// must follow
			if !p.parseInstructionMetadata() {
				return p.cancelNode(ctx)
			}
		} else if p.tok.Kind == TokComma {
			p.sendData(EventPunctuation)
			if !p.parseInstructionMetadata() {
				return p.cancelNode(ctx)
			}
		}
		if p.tok.Kind == TokLabelStr || p.tok.Kind == TokRBrace ||
			p.isKw(KwUseListOrder) || p.tok.Kind == TokEOF {
			done = true
		}
	}
	return p.endNode(ctx)
}
