package irparser

// TokenKind identifies a lexer token
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokError
	TokWhitespace
	TokComment

	// punctuation
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLSquare
	TokRSquare
	TokLess
	TokGreater
	TokComma
	TokEqual
	TokStar
	TokColon
	TokBar
	TokDotDotDot
	TokExclaim

	// variables and constants
	TokGlobalVar
	TokGlobalID
	TokLocalVar
	TokLocalVarID
	TokMetadataVar
	TokComdatVar
	TokAttrGrpID
	TokLabelStr
	TokLabelID
	TokStringConstant
	TokAPSInt
	TokAPFloat
	TokIntType
	TokIdentifier

	// keywords are TokKeyword with the Keyword field set
	TokKeyword
)

// Keyword identifies a recognized keyword
type Keyword string

// The keyword surface the parser understands. Instruction opcodes,
// linkage, calling conventions, attributes, orderings and type names.
const (
	KwNone Keyword = ""

	KwDefine      Keyword = "define"
	KwDeclare     Keyword = "declare"
	KwUnreachable Keyword = "unreachable"
	KwRet         Keyword = "ret"
	KwBr          Keyword = "br"
	KwSwitch      Keyword = "switch"
	KwIndirectBr  Keyword = "indirectbr"
	KwInvoke      Keyword = "invoke"
	KwResume      Keyword = "resume"
	KwCleanupRet  Keyword = "cleanupret"
	KwCatchRet    Keyword = "catchret"
	KwCatchSwitch Keyword = "catchswitch"
	KwCatchPad    Keyword = "catchpad"
	KwCleanupPad  Keyword = "cleanuppad"
	KwCallBr      Keyword = "callbr"

	KwFneg Keyword = "fneg"
	KwAdd  Keyword = "add"
	KwSub  Keyword = "sub"
	KwMul  Keyword = "mul"
	KwShl  Keyword = "shl"
	KwFAdd Keyword = "fadd"
	KwFSub Keyword = "fsub"
	KwFMul Keyword = "fmul"
	KwFDiv Keyword = "fdiv"
	KwFRem Keyword = "frem"
	KwSDiv Keyword = "sdiv"
	KwUDiv Keyword = "udiv"
	KwLShr Keyword = "lshr"
	KwAShr Keyword = "ashr"
	KwURem Keyword = "urem"
	KwSRem Keyword = "srem"
	KwAnd  Keyword = "and"
	KwOr   Keyword = "or"
	KwXor  Keyword = "xor"

	KwICmp Keyword = "icmp"
	KwFCmp Keyword = "fcmp"

	KwTrunc         Keyword = "trunc"
	KwZExt          Keyword = "zext"
	KwSExt          Keyword = "sext"
	KwFPTrunc       Keyword = "fptrunc"
	KwFPExt         Keyword = "fpext"
	KwBitcast       Keyword = "bitcast"
	KwAddrSpaceCast Keyword = "addrspacecast"
	KwUIToFP        Keyword = "uitofp"
	KwSIToFP        Keyword = "sitofp"
	KwFPToUI        Keyword = "fptoui"
	KwFPToSI        Keyword = "fptosi"
	KwIntToPtr      Keyword = "inttoptr"
	KwPtrToInt      Keyword = "ptrtoint"

	KwSelect         Keyword = "select"
	KwVaArg          Keyword = "va_arg"
	KwExtractElement Keyword = "extractelement"
	KwInsertElement  Keyword = "insertelement"
	KwShuffleVector  Keyword = "shufflevector"
	KwPhi            Keyword = "phi"
	KwLandingPad     Keyword = "landingpad"
	KwCall           Keyword = "call"
	KwTail           Keyword = "tail"
	KwMustTail       Keyword = "musttail"
	KwNoTail         Keyword = "notail"
	KwAlloca         Keyword = "alloca"
	KwLoad           Keyword = "load"
	KwStore          Keyword = "store"
	KwCmpXchg        Keyword = "cmpxchg"
	KwAtomicRMW      Keyword = "atomicrmw"
	KwFence          Keyword = "fence"
	KwGetElementPtr  Keyword = "getelementptr"
	KwExtractValue   Keyword = "extractvalue"
	KwInsertValue    Keyword = "insertvalue"
	KwUseListOrder   Keyword = "uselistorder"

	// linkage
	KwPrivate             Keyword = "private"
	KwInternal            Keyword = "internal"
	KwExternal            Keyword = "external"
	KwExternWeak          Keyword = "extern_weak"
	KwWeakLinkage         Keyword = "weak"
	KwWeakODR             Keyword = "weak_odr"
	KwLinkonce            Keyword = "linkonce"
	KwLinkonceODR         Keyword = "linkonce_odr"
	KwCommon              Keyword = "common"
	KwAppending           Keyword = "appending"
	KwAvailableExternally Keyword = "available_externally"
	KwDSOLocal            Keyword = "dso_local"
	KwDSOPreemptable      Keyword = "dso_preemptable"
	KwDLLImport           Keyword = "dllimport"
	KwDLLExport           Keyword = "dllexport"

	// calling conventions
	KwCCC        Keyword = "ccc"
	KwFastCC     Keyword = "fastcc"
	KwColdCC     Keyword = "coldcc"
	KwWebKitJSCC Keyword = "webkit_jscc"
	KwAnyRegCC   Keyword = "anyregcc"
	KwPreserveMostCC Keyword = "preserve_mostcc"
	KwPreserveAllCC  Keyword = "preserve_allcc"
	KwSwiftCC    Keyword = "swiftcc"
	KwTailCC     Keyword = "tailcc"
	KwCC         Keyword = "cc"

	// parameter attributes
	KwZeroExt         Keyword = "zeroext"
	KwSignExt         Keyword = "signext"
	KwInReg           Keyword = "inreg"
	KwByVal           Keyword = "byval"
	KwInalloca        Keyword = "inalloca"
	KwSRet            Keyword = "sret"
	KwNoAlias         Keyword = "noalias"
	KwNoCapture       Keyword = "nocapture"
	KwNest            Keyword = "nest"
	KwReturned        Keyword = "returned"
	KwNonNull         Keyword = "nonnull"
	KwDereferenceable Keyword = "dereferenceable"
	KwDereferenceableOrNull Keyword = "dereferenceable_or_null"
	KwSwiftError      Keyword = "swifterror"
	KwSwiftSelf       Keyword = "swiftself"
	KwImmarg          Keyword = "immarg"

	// function attributes
	KwAlwaysInline    Keyword = "alwaysinline"
	KwCold            Keyword = "cold"
	KwConvergent      Keyword = "convergent"
	KwInlineHint      Keyword = "inlinehint"
	KwMinSize         Keyword = "minsize"
	KwNaked           Keyword = "naked"
	KwNoBuiltin       Keyword = "nobuiltin"
	KwNoDuplicate     Keyword = "noduplicate"
	KwNoImplicitFloat Keyword = "noimplicitfloat"
	KwNoInline        Keyword = "noinline"
	KwNonLazyBind     Keyword = "nonlazybind"
	KwNoRedZone       Keyword = "noredzone"
	KwNoReturn        Keyword = "noreturn"
	KwNoRecurse       Keyword = "norecurse"
	KwNoUnwind        Keyword = "nounwind"
	KwOptNone         Keyword = "optnone"
	KwOptSize         Keyword = "optsize"
	KwReadNone        Keyword = "readnone"
	KwReadOnly        Keyword = "readonly"
	KwWriteOnly       Keyword = "writeonly"
	KwArgMemOnly      Keyword = "argmemonly"
	KwSSP             Keyword = "ssp"
	KwSSPReq          Keyword = "sspreq"
	KwSSPStrong       Keyword = "sspstrong"
	KwSanitizeAddress Keyword = "sanitize_address"
	KwSanitizeThread  Keyword = "sanitize_thread"
	KwSanitizeMemory  Keyword = "sanitize_memory"
	KwUWTable         Keyword = "uwtable"
	KwSpeculatable    Keyword = "speculatable"
	KwAlignStack      Keyword = "alignstack"
	KwAllocSize       Keyword = "allocsize"

	// fast-math flags
	KwFast     Keyword = "fast"
	KwNnan     Keyword = "nnan"
	KwNinf     Keyword = "ninf"
	KwNsz      Keyword = "nsz"
	KwArcp     Keyword = "arcp"
	KwContract Keyword = "contract"
	KwReassoc  Keyword = "reassoc"
	KwAfn      Keyword = "afn"

	// wrap and exact flags
	KwNuw      Keyword = "nuw"
	KwNsw      Keyword = "nsw"
	KwExact    Keyword = "exact"
	KwInbounds Keyword = "inbounds"
	KwInrange  Keyword = "inrange"

	// compare predicates
	KwEq  Keyword = "eq"
	KwNe  Keyword = "ne"
	KwSlt Keyword = "slt"
	KwSgt Keyword = "sgt"
	KwSle Keyword = "sle"
	KwSge Keyword = "sge"
	KwUlt Keyword = "ult"
	KwUgt Keyword = "ugt"
	KwUle Keyword = "ule"
	KwUge Keyword = "uge"
	KwOeq Keyword = "oeq"
	KwOgt Keyword = "ogt"
	KwOge Keyword = "oge"
	KwOlt Keyword = "olt"
	KwOle Keyword = "ole"
	KwOne Keyword = "one"
	KwOrd Keyword = "ord"
	KwUno Keyword = "uno"
	KwUeq Keyword = "ueq"
	KwUne Keyword = "une"

	// atomic orderings
	KwAtomic    Keyword = "atomic"
	KwVolatile  Keyword = "volatile"
	KwUnordered Keyword = "unordered"
	KwMonotonic Keyword = "monotonic"
	KwAcquire   Keyword = "acquire"
	KwRelease   Keyword = "release"
	KwAcqRel    Keyword = "acq_rel"
	KwSeqCst    Keyword = "seq_cst"
	KwSyncscope Keyword = "syncscope"

	// atomicrmw operations
	KwXchg Keyword = "xchg"
	KwNand Keyword = "nand"
	KwMax  Keyword = "max"
	KwMin  Keyword = "min"
	KwUMax Keyword = "umax"
	KwUMin Keyword = "umin"

	// types
	KwVoid     Keyword = "void"
	KwHalf     Keyword = "half"
	KwFloat    Keyword = "float"
	KwDouble   Keyword = "double"
	KwX86FP80  Keyword = "x86_fp80"
	KwFP128    Keyword = "fp128"
	KwPPCFP128 Keyword = "ppc_fp128"
	KwLabel    Keyword = "label"
	KwMetadata Keyword = "metadata"
	KwOpaque   Keyword = "opaque"
	KwToken    Keyword = "token"
	KwX        Keyword = "x"
	KwVscale   Keyword = "vscale"

	// constants
	KwTrue            Keyword = "true"
	KwFalse           Keyword = "false"
	KwNull            Keyword = "null"
	KwUndef           Keyword = "undef"
	KwZeroInitializer Keyword = "zeroinitializer"
	KwNoneKw          Keyword = "none"
	KwC               Keyword = "c"
	KwBlockAddress    Keyword = "blockaddress"

	// misc
	KwTo            Keyword = "to"
	KwUnwind        Keyword = "unwind"
	KwSection       Keyword = "section"
	KwPartition     Keyword = "partition"
	KwComdat        Keyword = "comdat"
	KwGC            Keyword = "gc"
	KwPrefix        Keyword = "prefix"
	KwPrologue      Keyword = "prologue"
	KwPersonality   Keyword = "personality"
	KwUnnamedAddr   Keyword = "unnamed_addr"
	KwLocalUnnamedAddr Keyword = "local_unnamed_addr"
	KwAlign         Keyword = "align"
	KwAddrSpace     Keyword = "addrspace"
	KwAsm           Keyword = "asm"
	KwSideEffect    Keyword = "sideeffect"
	KwIntelDialect  Keyword = "inteldialect"
	KwCleanup       Keyword = "cleanup"
	KwCatch         Keyword = "catch"
	KwFilter        Keyword = "filter"
	KwCaller        Keyword = "caller"
	KwWithin        Keyword = "within"
	KwFrom          Keyword = "from"
)

var keywords = func() map[string]Keyword {
	kws := []Keyword{
		KwDefine, KwDeclare, KwUnreachable, KwRet, KwBr, KwSwitch, KwIndirectBr,
		KwInvoke, KwResume, KwCleanupRet, KwCatchRet, KwCatchSwitch, KwCatchPad,
		KwCleanupPad, KwCallBr, KwFneg, KwAdd, KwSub, KwMul, KwShl, KwFAdd,
		KwFSub, KwFMul, KwFDiv, KwFRem, KwSDiv, KwUDiv, KwLShr, KwAShr, KwURem,
		KwSRem, KwAnd, KwOr, KwXor, KwICmp, KwFCmp, KwTrunc, KwZExt, KwSExt,
		KwFPTrunc, KwFPExt, KwBitcast, KwAddrSpaceCast, KwUIToFP, KwSIToFP,
		KwFPToUI, KwFPToSI, KwIntToPtr, KwPtrToInt, KwSelect, KwVaArg,
		KwExtractElement, KwInsertElement, KwShuffleVector, KwPhi, KwLandingPad,
		KwCall, KwTail, KwMustTail, KwNoTail, KwAlloca, KwLoad, KwStore,
		KwCmpXchg, KwAtomicRMW, KwFence, KwGetElementPtr, KwExtractValue,
		KwInsertValue, KwUseListOrder,
		KwPrivate, KwInternal, KwExternal, KwExternWeak, KwWeakLinkage,
		KwWeakODR, KwLinkonce, KwLinkonceODR, KwCommon, KwAppending,
		KwAvailableExternally, KwDSOLocal, KwDSOPreemptable, KwDLLImport,
		KwDLLExport,
		KwCCC, KwFastCC, KwColdCC, KwWebKitJSCC, KwAnyRegCC, KwPreserveMostCC,
		KwPreserveAllCC, KwSwiftCC, KwTailCC, KwCC,
		KwZeroExt, KwSignExt, KwInReg, KwByVal, KwInalloca, KwSRet, KwNoAlias,
		KwNoCapture, KwNest, KwReturned, KwNonNull, KwDereferenceable,
		KwDereferenceableOrNull, KwSwiftError, KwSwiftSelf, KwImmarg,
		KwAlwaysInline, KwCold, KwConvergent, KwInlineHint, KwMinSize, KwNaked,
		KwNoBuiltin, KwNoDuplicate, KwNoImplicitFloat, KwNoInline,
		KwNonLazyBind, KwNoRedZone, KwNoReturn, KwNoRecurse, KwNoUnwind,
		KwOptNone, KwOptSize, KwReadNone, KwReadOnly, KwWriteOnly, KwArgMemOnly,
		KwSSP, KwSSPReq, KwSSPStrong, KwSanitizeAddress, KwSanitizeThread,
		KwSanitizeMemory, KwUWTable, KwSpeculatable, KwAlignStack, KwAllocSize,
		KwFast, KwNnan, KwNinf, KwNsz, KwArcp, KwContract, KwReassoc, KwAfn,
		KwNuw, KwNsw, KwExact, KwInbounds, KwInrange,
		KwEq, KwNe, KwSlt, KwSgt, KwSle, KwSge, KwUlt, KwUgt, KwUle, KwUge,
		KwOeq, KwOgt, KwOge, KwOlt, KwOle, KwOne, KwOrd, KwUno, KwUeq, KwUne,
		KwAtomic, KwVolatile, KwUnordered, KwMonotonic, KwAcquire, KwRelease,
		KwAcqRel, KwSeqCst, KwSyncscope,
		KwXchg, KwNand, KwMax, KwMin, KwUMax, KwUMin,
		KwVoid, KwHalf, KwFloat, KwDouble, KwX86FP80, KwFP128, KwPPCFP128,
		KwLabel, KwMetadata, KwOpaque, KwToken, KwX, KwVscale,
		KwTrue, KwFalse, KwNull, KwUndef, KwZeroInitializer, KwNoneKw, KwC,
		KwBlockAddress,
		KwTo, KwUnwind, KwSection, KwPartition, KwComdat, KwGC, KwPrefix,
		KwPrologue, KwPersonality, KwUnnamedAddr, KwLocalUnnamedAddr, KwAlign,
		KwAddrSpace, KwAsm, KwSideEffect, KwIntelDialect, KwCleanup, KwCatch,
		KwFilter, KwCaller, KwWithin, KwFrom,
	}
	m := make(map[string]Keyword, len(kws))
	for _, kw := range kws {
		m[string(kw)] = kw
	}
	return m
}()

// Token is a lexed token. Text is the exact source spelling; StrVal is
// the semantic payload with sigils and quotes stripped.
type Token struct {
	Kind    TokenKind
	Keyword Keyword
	Text    string
	StrVal  string
	Line    int
	Column  int
	Index   int
}
