package constant

// Prompt templates for the AI features. All outputs are requested in
// Korean to match the product language.

const SummaryPrompt = `다음 메모를 한국어로 간결하게 요약해주세요.
- 핵심 내용만 3문장 이내로 정리
- 불릿이나 머리말 없이 평문으로만 작성

메모:
%s`

const TagsPrompt = `다음 메모에 어울리는 태그를 한국어로 최대 %d개 생성해주세요.
- 각 태그는 1~2단어로 짧게
- 쉼표로만 구분해서 출력 (설명, 번호, 해시태그 기호 없이)

메모:
%s`

const AutocompletePrompt = `사용자가 메모를 작성하는 중입니다. 이어서 쓸 자연스러운 한국어 문구를 3개 제안해주세요.
- 각 제안은 한 줄에 하나씩
- 번호나 기호 없이 문구만 출력
- 각 제안은 15자 이내

메모 제목: %s
작성 중인 내용: %s`
