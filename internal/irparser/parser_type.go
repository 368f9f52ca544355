package irparser

// Type, value and attribute productions.

// parseType recognizes one type and reports its flavor through out.
// Pointer stars and address space suffixes are folded into the type.
func (p *Parser) parseType(out *Event) bool {
	ctx := p.startNode(EventType)
	*out = EventNone
	switch {
	case p.tok.Kind == TokIntType:
		*out = EventBasicType
		p.sendData(EventBasicType)
	case p.tok.Kind == TokKeyword:
		switch p.tok.Keyword {
		case KwVoid, KwHalf, KwFloat, KwDouble, KwX86FP80, KwFP128,
			KwPPCFP128, KwOpaque, KwToken:
			*out = EventBasicType
			p.sendData(EventBasicType)
		case KwLabel:
			*out = EventLabelType
			p.sendData(EventLabelType)
		case KwMetadata:
			*out = EventMetadataType
			p.sendData(EventMetadataType)
		default:
			p.errorHere("expected type")
			return p.cancelNode(ctx)
		}
	case p.tok.Kind == TokLBrace:
		*out = EventStructType
		if !p.parseAnonStructType(false) {
			return p.cancelNode(ctx)
		}
	case p.tok.Kind == TokLess:
		// '<{' is a packed struct, otherwise a vector
		if !p.parseArrayVectorType(out) {
			return p.cancelNode(ctx)
		}
	case p.tok.Kind == TokLSquare:
		*out = EventArrayType
		if !p.parseArrayVectorBody(EventArrayType, TokRSquare) {
			return p.cancelNode(ctx)
		}
	case p.tok.Kind == TokLocalVar:
		*out = EventLocalVarType
		p.sendData(EventLocalVarType)
	case p.tok.Kind == TokLocalVarID:
		*out = EventLocalVarIDType
		p.sendData(EventLocalVarIDType)
	default:
		p.errorHere("expected type")
		return p.cancelNode(ctx)
	}
	// suffixes
	for {
		switch {
		case p.tok.Kind == TokStar:
			*out = EventPointerType
			p.sendData(EventPointerType)
		case p.isKw(KwAddrSpace):
			if !p.parseAddrSpaceBody() {
				return p.cancelNode(ctx)
			}
			if p.tok.Kind == TokStar {
				*out = EventPointerType
				p.sendData(EventPointerType)
			}
		case p.tok.Kind == TokLParen:
			// function type suffix
			if !p.parseFunctionTypeArgs() {
				return p.cancelNode(ctx)
			}
		default:
			return p.endNode(ctx)
		}
	}
}

func (p *Parser) parseFunctionTypeArgs() bool {
	p.sendData(EventPunctuation) // '('
	for p.tok.Kind != TokRParen && p.tok.Kind != TokEOF {
		if p.tok.Kind == TokDotDotDot {
			p.sendData(EventVariadic)
			continue
		}
		var ignore Event
		if !p.parseType(&ignore) {
			return false
		}
		if p.tok.Kind == TokComma {
			p.sendData(EventPunctuation)
		}
	}
	if p.tok.Kind != TokRParen {
		p.errorHere("expected ')' at end of function type")
		return false
	}
	p.sendData(EventPunctuation)
	return true
}

// parseAnonStructType handles '{ ... }'; packed '<{ ... }>' structs are
// parsed by parseArrayVectorType
func (p *Parser) parseAnonStructType(packed bool) bool {
	ctx := p.startNode(EventStructType)
	if !p.parseStructBody() {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

func (p *Parser) parseStructBody() bool {
	ctx := p.startNode(EventStructBody)
	if !p.expect(TokLBrace, "expected '{' in struct type", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	for p.tok.Kind != TokRBrace && p.tok.Kind != TokEOF {
		var ignore Event
		if !p.parseType(&ignore) {
			return p.cancelNode(ctx)
		}
		if p.tok.Kind == TokComma {
			p.sendData(EventPunctuation)
		}
	}
	if !p.expect(TokRBrace, "expected '}' at end of struct type", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

// parseArrayVectorType handles '<...>' forms: vectors, scalable
// vectors and packed structs
func (p *Parser) parseArrayVectorType(out *Event) bool {
	// consume '<'
	startTok := p.tok
	p.sendData(EventPunctuation)
	if p.tok.Kind == TokLBrace {
		*out = EventPackedStruct
		ctx := p.startNode(EventPackedStruct)
		if !p.parseStructBody() {
			return p.cancelNode(ctx)
		}
		if !p.expect(TokGreater, "expected '>' at end of packed struct", EventPunctuation) {
			return p.cancelNode(ctx)
		}
		return p.endNode(ctx)
	}
	*out = EventVectorType
	ctx := p.startNode(EventVectorType)
	if p.isKw(KwVscale) {
		p.sendData(EventVscale)
		if !p.isKw(KwX) {
			p.errorHere("expected 'x' after vscale")
			return p.cancelNode(ctx)
		}
		p.sendData(EventKeyword)
	}
	if p.tok.Kind != TokAPSInt {
		p.errorHere("expected vector length")
		return p.cancelNode(ctx)
	}
	if p.tok.Text == "0" {
		p.recv.Error("zero-length vector", startTok.Line, startTok.Column)
	}
	p.sendData(EventAPSInt)
	if !p.isKw(KwX) {
		p.errorHere("expected 'x' in vector type")
		return p.cancelNode(ctx)
	}
	p.sendData(EventKeyword)
	var ignore Event
	if !p.parseType(&ignore) {
		return p.cancelNode(ctx)
	}
	if !p.expect(TokGreater, "expected '>' at end of vector type", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

// parseArrayVectorBody handles '[N x T]'
func (p *Parser) parseArrayVectorBody(event Event, closeTok TokenKind) bool {
	ctx := p.startNode(event)
	p.sendData(EventPunctuation) // '['
	if p.tok.Kind != TokAPSInt {
		p.errorHere("expected array length")
		return p.cancelNode(ctx)
	}
	p.sendData(EventAPSInt)
	if !p.isKw(KwX) {
		p.errorHere("expected 'x' in array type")
		return p.cancelNode(ctx)
	}
	p.sendData(EventKeyword)
	var ignore Event
	if !p.parseType(&ignore) {
		return p.cancelNode(ctx)
	}
	if !p.expect(closeTok, "expected ']' at end of array type", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

// isValueStart reports whether the current token can begin a value
func (p *Parser) isValueStart() bool {
	switch p.tok.Kind {
	case TokAPSInt, TokAPFloat, TokGlobalVar, TokGlobalID, TokLocalVar,
		TokLocalVarID, TokStringConstant, TokMetadataVar, TokLBrace,
		TokLess, TokLSquare:
		return true
	case TokKeyword:
		switch p.tok.Keyword {
		case KwTrue, KwFalse, KwNull, KwUndef, KwZeroInitializer, KwNoneKw,
			KwC, KwBlockAddress, KwAsm:
			return true
		}
	}
	return false
}

// parseValue recognizes one value and reports its flavor through out
func (p *Parser) parseValue(out *Event) bool {
	ctx := p.startNode(EventValue)
	*out = EventNone
	switch p.tok.Kind {
	case TokAPSInt:
		*out = EventAPSInt
		p.sendData(EventAPSInt)
	case TokAPFloat:
		*out = EventAPSFloat
		p.sendData(EventAPSFloat)
	case TokGlobalVar:
		*out = EventGlobalVar
		p.sendData(EventGlobalVar)
	case TokGlobalID:
		*out = EventGlobalID
		p.sendData(EventGlobalID)
	case TokLocalVar:
		*out = EventLocalVar
		p.sendData(EventLocalVar)
	case TokLocalVarID:
		*out = EventLocalVarID
		p.sendData(EventLocalVarID)
	case TokStringConstant:
		*out = EventStringConstant
		p.sendData(EventStringConstant)
	case TokMetadataVar:
		*out = EventMetadata
		p.sendData(EventMetadata)
	case TokLBrace:
		*out = EventGlobalValue
		if !p.parseValueVector(TokRBrace) {
			return p.cancelNode(ctx)
		}
	case TokLess:
		*out = EventVector
		p.sendData(EventPunctuation)
		if p.tok.Kind == TokLBrace {
			if !p.parseValueVector(TokRBrace) {
				return p.cancelNode(ctx)
			}
		} else if !p.parseValueList(TokGreater, true) {
			return p.cancelNode(ctx)
		}
		if p.tok.Kind == TokGreater {
			p.sendData(EventPunctuation)
		}
	case TokLSquare:
		*out = EventGlobalValue
		if !p.parseValueVector(TokRSquare) {
			return p.cancelNode(ctx)
		}
	case TokKeyword:
		switch p.tok.Keyword {
		case KwTrue, KwFalse:
			*out = EventBoolConstant
			p.sendData(EventBoolConstant)
		case KwNull:
			*out = EventNull
			p.sendData(EventNull)
		case KwUndef:
			*out = EventUndef
			p.sendData(EventUndef)
		case KwZeroInitializer:
			*out = EventZero
			p.sendData(EventZero)
		case KwNoneKw:
			*out = EventNoneKw
			p.sendData(EventNoneKw)
		case KwC:
			*out = EventStringConstant
			p.sendData(EventKeyword)
			if p.tok.Kind != TokStringConstant {
				p.errorHere("expected string after 'c'")
				return p.cancelNode(ctx)
			}
			p.sendData(EventStringConstant)
		case KwBlockAddress:
			*out = EventBlockAddress
			if !p.parseBlockAddress() {
				return p.cancelNode(ctx)
			}
		case KwAsm:
			*out = EventAsm
			if !p.parseInlineAsm() {
				return p.cancelNode(ctx)
			}
		default:
			p.errorHere("expected value")
			return p.cancelNode(ctx)
		}
	default:
		p.errorHere("expected value")
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

// parseValueVector handles '{...}' and '[...]' aggregate literals
func (p *Parser) parseValueVector(closeTok TokenKind) bool {
	ctx := p.startNode(EventGlobalValue)
	p.sendData(EventPunctuation) // open bracket
	if !p.parseValueList(closeTok, true) {
		return p.cancelNode(ctx)
	}
	if p.tok.Kind != closeTok {
		p.errorHere("expected closing bracket in aggregate value")
		return p.cancelNode(ctx)
	}
	p.sendData(EventPunctuation)
	return p.endNode(ctx)
}

// parseValueList consumes type/value pairs separated by commas until
// the closing token
func (p *Parser) parseValueList(closeTok TokenKind, typed bool) bool {
	for p.tok.Kind != closeTok && p.tok.Kind != TokEOF {
		var ignore Event
		if typed {
			if !p.parseTypeAndValue(&ignore) {
				return false
			}
		} else if !p.parseValue(&ignore) {
			return false
		}
		if p.tok.Kind == TokComma {
			p.sendData(EventPunctuation)
		} else {
			break
		}
	}
	return true
}

func (p *Parser) parseBlockAddress() bool {
	ctx := p.startNode(EventBlockAddress)
	p.sendData(EventBlockAddress)
	if !p.expect(TokLParen, "expected '(' in blockaddress", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	var ignore Event
	if !p.parseValue(&ignore) {
		return p.cancelNode(ctx)
	}
	if !p.expect(TokComma, "expected ',' in blockaddress", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	if !p.parseValue(&ignore) {
		return p.cancelNode(ctx)
	}
	if !p.expect(TokRParen, "expected ')' in blockaddress", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

func (p *Parser) parseInlineAsm() bool {
	ctx := p.startNode(EventAsm)
	p.sendData(EventAsm)
	if p.isKw(KwSideEffect) {
		p.sendData(EventSideEffect)
	}
	if p.isKw(KwAlignStack) {
		p.sendData(EventAlignStack)
	}
	if p.isKw(KwIntelDialect) {
		p.sendData(EventIntelDialect)
	}
	if p.tok.Kind != TokStringConstant {
		p.errorHere("expected asm template string")
		return p.cancelNode(ctx)
	}
	p.sendData(EventStringConstant)
	if p.tok.Kind == TokComma {
		p.sendData(EventPunctuation)
		if p.tok.Kind != TokStringConstant {
			p.errorHere("expected asm constraint string")
			return p.cancelNode(ctx)
		}
		p.sendData(EventStringConstant)
	}
	return p.endNode(ctx)
}

func (p *Parser) parseTypeAndValue(out *Event) bool {
	if !p.parseType(out) {
		return false
	}
	if *out == EventLabelType {
		// labels are followed by their block value
		if p.tok.Kind == TokLocalVar || p.tok.Kind == TokLocalVarID {
			var ignore Event
			return p.parseValue(&ignore)
		}
		return true
	}
	var valueOut Event
	if !p.parseValue(&valueOut) {
		return false
	}
	return true
}

// parseParameterList handles call/invoke argument lists: (type
// [attrs] value, ...)
func (p *Parser) parseParameterList() bool {
	ctx := p.startNode(EventParameterList)
	if !p.expect(TokLParen, "expected '(' in parameter list", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	for p.tok.Kind != TokRParen && p.tok.Kind != TokEOF {
		var ignore Event
		if !p.parseType(&ignore) {
			return p.cancelNode(ctx)
		}
		p.parseOptionalParamAttrs()
		if !p.parseValue(&ignore) {
			return p.cancelNode(ctx)
		}
		if p.tok.Kind == TokComma {
			p.sendData(EventPunctuation)
		}
	}
	if !p.expect(TokRParen, "expected ')' at end of parameter list", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

func (p *Parser) parseOptionalLinkage() bool {
	if p.tok.Kind != TokKeyword {
		return true
	}
	switch p.tok.Keyword {
	case KwPrivate, KwInternal, KwExternal, KwExternWeak, KwWeakLinkage,
		KwWeakODR, KwLinkonce, KwLinkonceODR, KwCommon, KwAppending,
		KwAvailableExternally:
		p.sendData(EventLinkage)
	}
	if p.isKw(KwDSOLocal) {
		p.sendData(EventDSOLocal)
	}
	if p.isKw(KwDSOPreemptable) {
		p.sendData(EventDSOPreemptable)
	}
	if p.isKw(KwDLLImport) {
		p.sendData(EventDLLImport)
	}
	if p.isKw(KwDLLExport) {
		p.sendData(EventDLLExport)
	}
	return true
}

func (p *Parser) parseOptionalCallingConv() {
	if p.tok.Kind != TokKeyword {
		return
	}
	switch p.tok.Keyword {
	case KwCCC, KwFastCC, KwColdCC, KwWebKitJSCC, KwAnyRegCC,
		KwPreserveMostCC, KwPreserveAllCC, KwSwiftCC, KwTailCC:
		p.sendData(EventCallingConv)
	case KwCC:
		p.sendData(EventCallingConv)
		if p.tok.Kind == TokAPSInt {
			p.sendData(EventCallingConv)
		}
	}
}

func (p *Parser) parseOptionalReturnAttrs() {
	for p.tok.Kind == TokKeyword {
		switch p.tok.Keyword {
		case KwZeroExt, KwSignExt, KwInReg, KwNoAlias, KwNonNull:
			p.sendData(EventReturnAttr)
		case KwDereferenceable, KwDereferenceableOrNull:
			p.sendData(EventReturnAttr)
			p.parseAttrParen()
		default:
			return
		}
	}
}

func (p *Parser) parseOptionalParamAttrs() {
	for {
		switch {
		case p.tok.Kind != TokKeyword:
			return
		default:
			switch p.tok.Keyword {
			case KwZeroExt, KwSignExt, KwInReg, KwByVal, KwInalloca, KwSRet,
				KwNoAlias, KwNoCapture, KwNest, KwReturned, KwNonNull,
				KwSwiftError, KwSwiftSelf, KwImmarg:
				p.sendData(EventParamAttr)
			case KwDereferenceable, KwDereferenceableOrNull:
				p.sendData(EventParamAttr)
				p.parseAttrParen()
			case KwAlign:
				p.sendData(EventAlign)
				if p.tok.Kind == TokAPSInt {
					p.sendData(EventAPSInt)
				}
			default:
				return
			}
		}
	}
}

// parseAttrParen consumes '(' int ')' after sized attributes
func (p *Parser) parseAttrParen() {
	if p.tok.Kind != TokLParen {
		return
	}
	p.sendData(EventPunctuation)
	if p.tok.Kind == TokAPSInt {
		p.sendData(EventAPSInt)
	}
	if p.tok.Kind == TokRParen {
		p.sendData(EventPunctuation)
	}
}

// parseFnAttributeValuePairs consumes function attributes, attribute
// group references and string attributes
func (p *Parser) parseFnAttributeValuePairs(inAttrGrp bool) bool {
	for {
		switch {
		case p.tok.Kind == TokAttrGrpID:
			p.sendData(EventAttrGrpID)
		case p.tok.Kind == TokStringConstant:
			p.sendData(EventFnAttribute)
			if p.tok.Kind == TokEqual {
				p.sendData(EventPunctuation)
				if p.tok.Kind != TokStringConstant {
					p.errorHere("expected value string for attribute")
					return false
				}
				p.sendData(EventFnAttribute)
			}
		case p.tok.Kind == TokKeyword:
			switch p.tok.Keyword {
			case KwAlwaysInline, KwCold, KwConvergent, KwInlineHint, KwMinSize,
				KwNaked, KwNoBuiltin, KwNoDuplicate, KwNoImplicitFloat,
				KwNoInline, KwNonLazyBind, KwNoRedZone, KwNoReturn, KwNoRecurse,
				KwNoUnwind, KwOptNone, KwOptSize, KwReadNone, KwReadOnly,
				KwWriteOnly, KwArgMemOnly, KwSSP, KwSSPReq, KwSSPStrong,
				KwSanitizeAddress, KwSanitizeThread, KwSanitizeMemory,
				KwUWTable, KwSpeculatable:
				p.sendData(EventFnAttribute)
			case KwAlignStack:
				p.sendData(EventAlignStack)
				p.parseAttrParen()
			case KwAllocSize:
				p.sendData(EventAllocSize)
				if !p.parseAllocSizeArguments() {
					return false
				}
			case KwAlign:
				if inAttrGrp {
					p.sendData(EventAlign)
					if p.tok.Kind == TokAPSInt {
						p.sendData(EventAPSInt)
					}
				} else {
					return true
				}
			default:
				return true
			}
		default:
			return true
		}
	}
}

func (p *Parser) parseAllocSizeArguments() bool {
	if p.tok.Kind != TokLParen {
		p.errorHere("expected '(' in allocsize")
		return false
	}
	p.sendData(EventPunctuation)
	if p.tok.Kind != TokAPSInt {
		p.errorHere("expected allocsize argument")
		return false
	}
	p.sendData(EventAPSInt)
	if p.tok.Kind == TokComma {
		p.sendData(EventPunctuation)
		if p.tok.Kind != TokAPSInt {
			p.errorHere("expected allocsize argument")
			return false
		}
		p.sendData(EventAPSInt)
	}
	if p.tok.Kind != TokRParen {
		p.errorHere("expected ')' in allocsize")
		return false
	}
	p.sendData(EventPunctuation)
	return true
}

func (p *Parser) parseOptionalFastMathFlags() {
	for p.tok.Kind == TokKeyword {
		switch p.tok.Keyword {
		case KwFast:
			p.sendData(EventFast)
		case KwNnan:
			p.sendData(EventNnan)
		case KwNinf:
			p.sendData(EventNinf)
		case KwNsz:
			p.sendData(EventNsz)
		case KwArcp:
			p.sendData(EventArcp)
		case KwContract:
			p.sendData(EventContract)
		case KwReassoc:
			p.sendData(EventReassoc)
		case KwAfn:
			p.sendData(EventAfn)
		default:
			return
		}
	}
}

func (p *Parser) parseOptionalAlignment() {
	if p.isKw(KwAlign) {
		p.sendData(EventAlign)
		if p.tok.Kind == TokAPSInt {
			p.sendData(EventAPSInt)
		}
	}
}

func (p *Parser) parseOptionalAddrSpace() {
	if p.isKw(KwAddrSpace) {
		p.parseAddrSpaceBody()
	}
}

func (p *Parser) parseAddrSpaceBody() bool {
	ctx := p.startNode(EventAddrSpace)
	p.sendData(EventAddrSpace)
	if !p.expect(TokLParen, "expected '(' in addrspace", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	if p.tok.Kind != TokAPSInt {
		p.errorHere("expected address space number")
		return p.cancelNode(ctx)
	}
	p.sendData(EventAPSInt)
	if !p.expect(TokRParen, "expected ')' in addrspace", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

// parseOptionalOperandBundles handles [ "tag"(type value, ...), ... ]
func (p *Parser) parseOptionalOperandBundles() bool {
	if p.tok.Kind != TokLSquare {
		return true
	}
	ctx := p.startNode(EventOperandBundle)
	p.sendData(EventPunctuation)
	for p.tok.Kind != TokRSquare && p.tok.Kind != TokEOF {
		if p.tok.Kind != TokStringConstant {
			p.errorHere("expected operand bundle tag")
			return p.cancelNode(ctx)
		}
		p.sendData(EventStringConstant)
		if !p.expect(TokLParen, "expected '(' in operand bundle", EventPunctuation) {
			return p.cancelNode(ctx)
		}
		for p.tok.Kind != TokRParen && p.tok.Kind != TokEOF {
			var ignore Event
			if !p.parseTypeAndValue(&ignore) {
				return p.cancelNode(ctx)
			}
			if p.tok.Kind == TokComma {
				p.sendData(EventPunctuation)
			}
		}
		if !p.expect(TokRParen, "expected ')' in operand bundle", EventPunctuation) {
			return p.cancelNode(ctx)
		}
		if p.tok.Kind == TokComma {
			p.sendData(EventPunctuation)
		}
	}
	if !p.expect(TokRSquare, "expected ']' at end of operand bundles", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

func (p *Parser) parseScopeAndOrdering() bool {
	if !p.parseScope() {
		return false
	}
	return p.parseOrdering()
}

// parseScope consumes an optional syncscope("...") clause
func (p *Parser) parseScope() bool {
	if !p.isKw(KwSyncscope) {
		return true
	}
	ctx := p.startNode(EventScope)
	p.sendData(EventSyncscope)
	if !p.expect(TokLParen, "expected '(' in syncscope", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	if p.tok.Kind != TokStringConstant {
		p.errorHere("expected scope string")
		return p.cancelNode(ctx)
	}
	p.sendData(EventStringConstant)
	if !p.expect(TokRParen, "expected ')' in syncscope", EventPunctuation) {
		return p.cancelNode(ctx)
	}
	return p.endNode(ctx)
}

func (p *Parser) parseOrdering() bool {
	if p.tok.Kind != TokKeyword {
		p.errorHere("expected atomic ordering")
		return false
	}
	switch p.tok.Keyword {
	case KwUnordered:
		p.sendData(EventUnordered)
	case KwMonotonic:
		p.sendData(EventMonotonic)
	case KwAcquire:
		p.sendData(EventAcquire)
	case KwRelease:
		p.sendData(EventRelease)
	case KwAcqRel:
		p.sendData(EventAcqRel)
	case KwSeqCst:
		p.sendData(EventSeqCst)
	default:
		p.errorHere("expected atomic ordering")
		return false
	}
	return true
}

// parseOptionalCommaAlign consumes ', align N'; a comma followed by
// anything else sets ateExtraComma so the caller expects metadata
func (p *Parser) parseOptionalCommaAlign(ateExtraComma *bool) bool {
	for p.tok.Kind == TokComma {
		p.sendData(EventPunctuation)
		if !p.isKw(KwAlign) {
			*ateExtraComma = true
			return true
		}
		p.sendData(EventAlign)
		if p.tok.Kind != TokAPSInt {
			p.errorHere("expected alignment value")
			return false
		}
		p.sendData(EventAPSInt)
	}
	return true
}
